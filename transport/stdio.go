package transport

import (
	"io"
	"os"
)

// Framing selects which header/delimiter convention Stdio wraps.
type Framing int

const (
	// FramingLineDelimited frames each message with a trailing "\n".
	FramingLineDelimited Framing = iota
	// FramingLengthPrefixed frames each message with a Content-Length header.
	FramingLengthPrefixed
)

// Stdio wraps one of the two byte framings over the process's standard
// streams. It exists because a process-stdio transport is just "one of the
// other two framings, applied to os.Stdin/os.Stdout" — the spec draws no
// distinction above the byte layer, so this type doesn't either.
type Stdio struct {
	inner Transport
}

// NewStdio builds a Stdio transport over os.Stdin/os.Stdout using framing.
func NewStdio(framing Framing) *Stdio {
	return newStdioFrom(os.Stdin, os.Stdout, framing)
}

func newStdioFrom(r io.Reader, w io.Writer, framing Framing) *Stdio {
	var inner Transport
	switch framing {
	case FramingLengthPrefixed:
		inner = NewLengthPrefixed(r, w, nil)
	default:
		inner = NewLineDelimited(r, w, nil)
	}
	return &Stdio{inner: inner}
}

// Send implements Transport.
func (s *Stdio) Send(message string) error { return s.inner.Send(message) }

// Recv implements Transport.
func (s *Stdio) Recv() (string, bool, error) { return s.inner.Recv() }

// Close implements Transport. Stdin/stdout are not closed: the process owns
// them for its whole lifetime, not just this transport's.
func (s *Stdio) Close() error { return nil }
