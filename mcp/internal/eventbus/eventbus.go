// Package eventbus fans session lifecycle events (opened, closed, peer
// error) out to whatever else in the embedding host wants to observe them —
// metrics collectors, an admin HTTP feed, a session group's bookkeeping —
// without coupling the session loop to any one of them. It is a thin wrapper
// over github.com/cskr/pubsub, keeping the same New/Sub/Pub/Unsub shape the
// teacher's own event bus exposed, backed by a real pub/sub library instead
// of hand-rolled channel bookkeeping.
package eventbus

import "github.com/cskr/pubsub"

// Bus is a type-erased, multi-topic, non-blocking publish/subscribe bus. A
// slow subscriber misses messages rather than blocking a publisher, the
// same trade-off the teacher's domain.EventBus makes for collector fan-out.
type Bus struct {
	ps *pubsub.PubSub
}

// New creates a Bus whose subscriber channels are buffered to bufferSize.
func New(bufferSize int) *Bus {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Bus{ps: pubsub.New(bufferSize)}
}

// Sub subscribes to one or more topics, returning a channel that receives
// every message published to any of them.
func (b *Bus) Sub(topics ...string) chan any {
	return b.ps.Sub(topics...)
}

// Pub publishes msg to every subscriber of the given topics. A subscriber
// whose buffer is full is skipped rather than blocked.
func (b *Bus) Pub(msg any, topics ...string) {
	b.ps.TryPub(msg, topics...)
}

// Unsub removes ch from the given topics (all topics it is subscribed to if
// none are given) and closes ch once it is subscribed to nothing.
func (b *Bus) Unsub(ch chan any, topics ...string) {
	b.ps.Unsub(ch, topics...)
}

// Shutdown closes every subscriber channel and stops the bus.
func (b *Bus) Shutdown() {
	b.ps.Shutdown()
}

// Session lifecycle topics published by mcp.Client / mcp.ServerSession.
const (
	TopicSessionOpened = "session.opened"
	TopicSessionClosed = "session.closed"
	TopicPeerError     = "session.peer_error"
)

// SessionEvent is the payload published on the session lifecycle topics.
type SessionEvent struct {
	SessionID string
	Err       error
}
