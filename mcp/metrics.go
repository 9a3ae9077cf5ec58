package mcp

import "time"

// Metrics is an optional observability hook a host can supply to a Client or
// Server to expose session counters without the core depending on any one
// metrics backend. adminhttp wires a Prometheus-backed implementation; the
// zero value of noopMetrics is used when a host supplies none.
type Metrics interface {
	// SessionOpened is called once per session, right after the handshake completes.
	SessionOpened()
	// SessionClosed is called once per session, when its loop returns.
	SessionClosed()
	// RequestDispatched records how long a server handler took to produce a result.
	RequestDispatched(method string, d time.Duration)
	// PendingRequests reports the current size of a client session's pending-reply map.
	PendingRequests(n int)
	// PeerError is called whenever a peer returns a JSON-RPC error response.
	PeerError(code int)
}

type noopMetrics struct{}

func (noopMetrics) SessionOpened()                              {}
func (noopMetrics) SessionClosed()                               {}
func (noopMetrics) RequestDispatched(method string, d time.Duration) {}
func (noopMetrics) PendingRequests(n int)                        {}
func (noopMetrics) PeerError(code int)                           {}

// NoopMetrics is the default Metrics implementation: every call is a no-op.
var NoopMetrics Metrics = noopMetrics{}
