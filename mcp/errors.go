package mcp

import (
	"errors"
	"fmt"
)

// Kind categorises an Error the way a caller needs to branch on it:
// transport failure, codec failure, a JSON-RPC error returned by the peer,
// an internal channel/slot closing, a caller-imposed timeout, or anything
// else.
type Kind int

const (
	// KindOther is the catch-all kind for errors that don't fit elsewhere.
	KindOther Kind = iota
	// KindTransport marks an underlying byte-stream failure.
	KindTransport
	// KindCodec marks a JSON encode/decode failure.
	KindCodec
	// KindPeer marks a JSON-RPC error response received from the remote side.
	KindPeer
	// KindChannelClosed marks an internal queue or pending-reply slot that
	// closed because its owning loop ended.
	KindChannelClosed
	// KindTimeout marks a caller-imposed deadline that elapsed.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindCodec:
		return "codec"
	case KindPeer:
		return "peer"
	case KindChannelClosed:
		return "channel closed"
	case KindTimeout:
		return "timeout"
	default:
		return "other"
	}
}

// Sentinel errors identifying the category of an Error without inspecting
// its fields. Wrap these with Error when a call site needs more context,
// the way oauth/mcp's errors.go sentinels are wrapped by DomainError.
var (
	// ErrMethodNotFound indicates no handler is registered for a method.
	ErrMethodNotFound = errors.New("mcp: method not found")
	// ErrToolNotFound indicates no tool is registered under the requested name.
	ErrToolNotFound = errors.New("mcp: tool not found")
	// ErrInvalidParams indicates request parameters failed to deserialise.
	ErrInvalidParams = errors.New("mcp: invalid params")
	// ErrChannelClosed indicates a pending-reply slot or queue closed before
	// it was fulfilled, because the owning session loop ended.
	ErrChannelClosed = errors.New("mcp: channel closed")
	// ErrHandshakeRequired indicates a non-handshake message arrived before
	// initialize completed.
	ErrHandshakeRequired = errors.New("mcp: handshake required")
	// ErrAlreadyInitialized indicates a second initialize request on one session.
	ErrAlreadyInitialized = errors.New("mcp: already initialized")
	// ErrToolAlreadyRegistered indicates a duplicate tool name in one registry build.
	ErrToolAlreadyRegistered = errors.New("mcp: tool already registered")
)

// Standard JSON-RPC 2.0 error codes, reserved on the wire.
const (
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Error is the error type returned across the SDK's public API. It carries
// a Kind a caller can switch on, an optional JSON-RPC code/message pair
// (populated for KindPeer), and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Op      string // the operation that failed, e.g. "Client.Request"
	Code    int    // JSON-RPC error code, meaningful when Kind == KindPeer
	Message string // JSON-RPC error message, meaningful when Kind == KindPeer
	Err     error  // wrapped cause, may be nil
}

// NewError builds an Error of the given kind for operation op, wrapping err.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NewPeerError builds a KindPeer Error from a JSON-RPC error response.
func NewPeerError(op string, code int, message string) *Error {
	return &Error{Kind: KindPeer, Op: op, Code: code, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindPeer {
		return fmt.Sprintf("%s: peer error %d: %s", e.Op, e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap returns the wrapped cause, if any, so errors.Is/errors.As can walk
// through an Error to a sentinel beneath it.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target matches this Error's wrapped cause. This lets
// callers write errors.Is(err, mcp.ErrToolNotFound) without caring whether
// the error was wrapped in an *Error along the way.
func (e *Error) Is(target error) bool {
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}
