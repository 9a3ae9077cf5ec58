package transport

import (
	"bytes"
	"testing"
)

func TestStdioLineDelimitedFraming(t *testing.T) {
	var out bytes.Buffer
	in := bytes.NewBufferString("ping\n")
	s := newStdioFrom(in, &out, FramingLineDelimited)

	if err := s.Send("pong"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if out.String() != "pong\n" {
		t.Fatalf("Send wrote %q, want %q", out.String(), "pong\n")
	}
	msg, ok, err := s.Recv()
	if err != nil || !ok || msg != "ping" {
		t.Fatalf("Recv() = %q, ok=%v, err=%v, want %q", msg, ok, err, "ping")
	}
}

func TestStdioLengthPrefixedFraming(t *testing.T) {
	var out bytes.Buffer
	in := bytes.NewBufferString("Content-Length: 4\r\n\r\nping")
	s := newStdioFrom(in, &out, FramingLengthPrefixed)

	msg, ok, err := s.Recv()
	if err != nil || !ok || msg != "ping" {
		t.Fatalf("Recv() = %q, ok=%v, err=%v, want %q", msg, ok, err, "ping")
	}
}

func TestStdioCloseDoesNotCloseStandardStreams(t *testing.T) {
	var out bytes.Buffer
	in := bytes.NewBufferString("")
	s := newStdioFrom(in, &out, FramingLineDelimited)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
