// Package transport implements the pluggable byte-stream framings the mcp
// package's sessions run over. A Transport delivers and receives discrete
// UTF-8 text messages with no interpretation of their contents — the codec
// and session layers above it own everything about what the bytes mean.
package transport

// Transport is a full-duplex framed message stream. Exactly one goroutine
// may call Send and exactly one (possibly the same, possibly a different
// one) may call Recv at a time; the session loop that owns a Transport
// guarantees this by construction (see mcp.Client / mcp.ServerSession).
type Transport interface {
	// Send transmits exactly one framed message.
	Send(message string) error
	// Recv returns the next complete message. ok is false with a nil error
	// on orderly close (the none case); ok is false with a non-nil error on
	// I/O failure.
	Recv() (message string, ok bool, err error)
	// Close releases the underlying stream.
	Close() error
}
