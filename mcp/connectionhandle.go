package mcp

import (
	"encoding/json"

	"github.com/ruaan-deysel/go-mcp-sdk/logger"
)

// ConnectionHandle is passed to every invoked handler. It is safe to retain
// and send from arbitrary goroutines, including after the handler that
// received it has returned — a tool that spawns its own worker to push
// progress notifications later keeps using the same handle. Sending after
// the session has ended returns a channel-closed error.
type ConnectionHandle struct {
	sessionID string
	requestID Identifier
	log       *logger.Logger
	outbox    chan<- Notification
	closed    <-chan struct{}
}

func newConnectionHandle(sessionID string, requestID Identifier, log *logger.Logger, outbox chan<- Notification, closed <-chan struct{}) *ConnectionHandle {
	return &ConnectionHandle{sessionID: sessionID, requestID: requestID, log: log, outbox: outbox, closed: closed}
}

// SessionID identifies the connection this handle belongs to.
func (h *ConnectionHandle) SessionID() string { return h.sessionID }

// RequestID is the identifier of the request whose handler received this
// handle, so logging and correlated notifications can reference it even
// from a detached goroutine.
func (h *ConnectionHandle) RequestID() Identifier { return h.requestID }

// Logger returns a logger already scoped to this connection.
func (h *ConnectionHandle) Logger() *logger.Logger { return h.log }

// SendNotification enqueues a pre-formed notification onto the session's
// outbox. It never blocks on I/O: the session loop owns the actual write.
func (h *ConnectionHandle) SendNotification(method string, params any) error {
	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return NewError(KindCodec, "ConnectionHandle.SendNotification", err)
		}
		raw = data
	}
	note := Notification{JSONRPC: "2.0", Method: method, Params: raw}
	select {
	case h.outbox <- note:
		return nil
	case <-h.closed:
		return NewError(KindChannelClosed, "ConnectionHandle.SendNotification", ErrChannelClosed)
	}
}
