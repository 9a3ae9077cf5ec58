package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ruaan-deysel/go-mcp-sdk/logger"
	"github.com/ruaan-deysel/go-mcp-sdk/mcp/internal/eventbus"
	"github.com/ruaan-deysel/go-mcp-sdk/transport"
)

// NotificationHandler is invoked, on its own goroutine, whenever a
// notification for the registered method arrives. The session loop never
// blocks on a handler's execution.
type NotificationHandler func(params json.RawMessage)

// reply is the one-shot value delivered to a pending caller: either a
// successful result, or an error (peer error, codec error, channel-closed).
type reply struct {
	result json.RawMessage
	err    error
}

type outboundRequest struct {
	id     Identifier
	method string
	params json.RawMessage
	replyC chan reply
}

// ClientOptions configures optional collaborators for a Client.
type ClientOptions struct {
	// Validator runs schema validation on outbound records. Nil disables it.
	Validator Validator
	// Metrics receives session/request counters. Nil uses NoopMetrics.
	Metrics Metrics
	// Bus, if set, publishes session lifecycle events (see internal/eventbus).
	Bus *eventbus.Bus
	// ClientInfo identifies this client in the handshake.
	ClientInfo Implementation
	// WantsToolListChanged advertises interest in tools/list_changed notifications.
	WantsToolListChanged bool
	// OutboundQueueSize bounds the client's outbound work queue. Zero uses a default.
	OutboundQueueSize int
}

// Client drives one connection to an MCP server: the handshake, request/
// response correlation, and notification dispatch, all from a single
// background loop goroutine. Every exported method is safe to call from
// multiple goroutines concurrently.
type Client struct {
	t       transport.Transport
	codec   *Codec
	log     *logger.Logger
	metrics Metrics
	bus     *eventbus.Bus

	nextID atomic.Int64

	pendingMu sync.Mutex
	pending   map[any]chan reply

	handlersMu sync.RWMutex
	handlers   map[string]NotificationHandler

	outbound chan outboundRequest
	inbound  chan inboundMsg

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error

	serverInfo Implementation
	serverCaps ServerCapabilities
}

type inboundMsg struct {
	data   string
	err    error
	closed bool
}

// Connect performs the handshake over t and, on success, returns a running
// Client. The handshake is synchronous from the caller's perspective: it
// sends the id=0 initialize request and waits for the matching response
// before returning.
func Connect(ctx context.Context, t transport.Transport, opts ClientOptions) (*Client, error) {
	if opts.Metrics == nil {
		opts.Metrics = NoopMetrics
	}
	queueSize := opts.OutboundQueueSize
	if queueSize <= 0 {
		queueSize = 32
	}
	if opts.ClientInfo.Name == "" {
		opts.ClientInfo = Implementation{Name: "go-mcp-sdk", Version: "0.1.0"}
	}

	c := &Client{
		t:        t,
		codec:    NewCodec(opts.Validator),
		log:      logger.Named("client"),
		metrics:  opts.Metrics,
		bus:      opts.Bus,
		pending:  make(map[any]chan reply),
		handlers: make(map[string]NotificationHandler),
		outbound: make(chan outboundRequest, queueSize),
		inbound:  make(chan inboundMsg, 1),
		done:     make(chan struct{}),
	}

	go c.readLoop()
	go c.loop()

	var caps ClientCapabilities
	if opts.WantsToolListChanged {
		caps.Tools = &ToolListChangedCapability{ListChanged: true}
	}
	params, err := json.Marshal(InitializeParams{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    caps,
		ClientInfo:      opts.ClientInfo,
	})
	if err != nil {
		return nil, NewError(KindCodec, "Connect", err)
	}

	replyC := make(chan reply, 1)
	select {
	case c.outbound <- outboundRequest{id: NewIntID(0), method: MethodInitialize, params: params, replyC: replyC}:
	case <-c.done:
		return nil, NewError(KindChannelClosed, "Connect", ErrChannelClosed)
	}

	select {
	case r := <-replyC:
		if r.err != nil {
			return nil, r.err
		}
		var result InitializeResult
		if err := json.Unmarshal(r.result, &result); err != nil {
			return nil, NewError(KindCodec, "Connect", err)
		}
		c.serverInfo = result.ServerInfo
		c.serverCaps = result.Capabilities
	case <-ctx.Done():
		return nil, NewError(KindTimeout, "Connect", ctx.Err())
	case <-c.done:
		return nil, NewError(KindChannelClosed, "Connect", ErrChannelClosed)
	}

	c.nextID.Store(0) // allocID does Add(1) first, so the next id issued is 1
	_ = c.notifyInitialized()

	if c.bus != nil {
		c.bus.Pub(eventbus.SessionEvent{}, eventbus.TopicSessionOpened)
	}
	c.metrics.SessionOpened()
	return c, nil
}

// notifyInitialized sends the post-handshake "initialized" notification.
// Open question (spec.md §9): servers vary on whether they require it, so a
// failure to send it is logged but not fatal to the connection.
func (c *Client) notifyInitialized() error {
	data, err := c.codec.Encode(Notification{JSONRPC: "2.0", Method: MethodInitialized})
	if err != nil {
		c.log.Warning("failed to encode initialized notification: %v", err)
		return err
	}
	if err := c.t.Send(string(data)); err != nil {
		c.log.Warning("failed to send initialized notification: %v", err)
		return err
	}
	return nil
}

// ServerInfo returns the peer identity learned during the handshake.
func (c *Client) ServerInfo() Implementation { return c.serverInfo }

// ServerCapabilities returns the capability descriptor learned during the handshake.
func (c *Client) ServerCapabilities() ServerCapabilities { return c.serverCaps }

// On registers a notification handler for methodName. Registering again for
// the same method replaces the previous handler.
func (c *Client) On(methodName string, handler NotificationHandler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[methodName] = handler
}

// Request sends a single request of the given method with params and
// decodes the result into result (which should be a pointer, or nil to
// discard the result).
func (c *Client) Request(ctx context.Context, method string, params, result any) error {
	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return NewError(KindCodec, "Client.Request", err)
		}
		raw = data
	}

	id := NewIntID(c.allocID())

	replyC := make(chan reply, 1)
	select {
	case c.outbound <- outboundRequest{id: id, method: method, params: raw, replyC: replyC}:
	case <-ctx.Done():
		return NewError(KindTimeout, "Client.Request", ctx.Err())
	case <-c.done:
		return NewError(KindChannelClosed, "Client.Request", ErrChannelClosed)
	}

	select {
	case r := <-replyC:
		if r.err != nil {
			return r.err
		}
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(r.result, result); err != nil {
			return NewError(KindCodec, "Client.Request", err)
		}
		return nil
	case <-ctx.Done():
		return NewError(KindTimeout, "Client.Request", ctx.Err())
	case <-c.done:
		return NewError(KindChannelClosed, "Client.Request", ErrChannelClosed)
	}
}

func (c *Client) allocID() int64 { return c.nextID.Add(1) }

// ListTools calls tools/list.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	var result ListToolsResult
	if err := c.Request(ctx, MethodToolsList, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool calls tools/call for the named tool with the given arguments
// (already JSON-marshalable, typically a map[string]any or a typed struct).
func (c *Client) CallTool(ctx context.Context, name string, arguments any) (*CallToolResult, error) {
	var argsRaw json.RawMessage
	if arguments != nil {
		data, err := json.Marshal(arguments)
		if err != nil {
			return nil, NewError(KindCodec, "Client.CallTool", err)
		}
		argsRaw = data
	}
	var result CallToolResult
	if err := c.Request(ctx, MethodToolsCall, CallToolParams{Name: name, Arguments: argsRaw}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListResources calls resources/list.
func (c *Client) ListResources(ctx context.Context) ([]Resource, error) {
	var result ListResourcesResult
	if err := c.Request(ctx, MethodResourcesList, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

// ReadResource calls resources/read.
func (c *Client) ReadResource(ctx context.Context, uri string) (*ReadResourceResult, error) {
	var result ReadResourceResult
	if err := c.Request(ctx, MethodResourcesRead, ReadResourceParams{URI: uri}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPrompts calls prompts/list.
func (c *Client) ListPrompts(ctx context.Context) ([]Prompt, error) {
	var result ListPromptsResult
	if err := c.Request(ctx, MethodPromptsList, struct{}{}, &result); err != nil {
		return nil, err
	}
	return result.Prompts, nil
}

// GetPrompt calls prompts/get.
func (c *Client) GetPrompt(ctx context.Context, name string, arguments any) (*GetPromptResult, error) {
	var argsRaw json.RawMessage
	if arguments != nil {
		data, err := json.Marshal(arguments)
		if err != nil {
			return nil, NewError(KindCodec, "Client.GetPrompt", err)
		}
		argsRaw = data
	}
	var result GetPromptResult
	if err := c.Request(ctx, MethodPromptsGet, GetPromptParams{Name: name, Arguments: argsRaw}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Close aborts the loop goroutine. All callers with pending requests then
// observe a channel-closed error.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		_ = c.t.Close()
		select {
		case c.inbound <- inboundMsg{closed: true}:
		case <-c.done:
		}
	})
	<-c.done
	return nil
}

func (c *Client) readLoop() {
	for {
		msg, ok, err := c.t.Recv()
		if err != nil {
			select {
			case c.inbound <- inboundMsg{err: err}:
			case <-c.done:
			}
			return
		}
		if !ok {
			select {
			case c.inbound <- inboundMsg{closed: true}:
			case <-c.done:
			}
			return
		}
		select {
		case c.inbound <- inboundMsg{data: msg}:
		case <-c.done:
			return
		}
	}
}

// loop is the session's single reader/writer of the transport. Biased
// selection drains the outbound queue before accepting more inbound
// messages, so a burst of server notifications can't starve outgoing calls.
func (c *Client) loop() {
	var shutdownErr error
	for {
		select {
		case req := <-c.outbound:
			if err := c.dispatchOutbound(req); err != nil {
				shutdownErr = err
				goto drain
			}
			continue
		default:
		}

		select {
		case req := <-c.outbound:
			if err := c.dispatchOutbound(req); err != nil {
				shutdownErr = err
				goto drain
			}
		case im := <-c.inbound:
			if im.closed {
				goto drain
			}
			if im.err != nil {
				shutdownErr = im.err
				goto drain
			}
			c.handleInbound(im.data)
		}
	}

drain:
	c.shutdown(shutdownErr)
}

func (c *Client) dispatchOutbound(req outboundRequest) error {
	c.pendingMu.Lock()
	c.pending[req.id.key()] = req.replyC
	c.metrics.PendingRequests(len(c.pending))
	c.pendingMu.Unlock()

	data, err := c.codec.Encode(Request{JSONRPC: "2.0", ID: req.id, Method: req.method, Params: req.params})
	if err != nil {
		c.failAndRemove(req.id, err)
		return nil
	}
	if err := c.t.Send(string(data)); err != nil {
		wrapped := NewError(KindTransport, "Client.loop", err)
		c.failAndRemove(req.id, wrapped)
		return wrapped
	}
	return nil
}

func (c *Client) failAndRemove(id Identifier, err error) {
	c.pendingMu.Lock()
	ch, ok := c.pending[id.key()]
	delete(c.pending, id.key())
	c.pendingMu.Unlock()
	if ok {
		ch <- reply{err: err}
	}
}

func (c *Client) handleInbound(raw string) {
	data := []byte(raw)
	if IsBlank(data) {
		return
	}
	kind, err := Classify(data)
	if err != nil {
		c.log.Warning("dropping unclassifiable message: %v", err)
		return
	}
	switch kind {
	case FrameResponse:
		var resp Response
		if err := c.codec.Decode(data, &resp); err != nil {
			c.log.Warning("dropping malformed response: %v", err)
			return
		}
		c.resolvePending(resp.ID, reply{result: resp.Result})
	case FrameErrorResponse:
		var eresp ErrorResponse
		if err := c.codec.Decode(data, &eresp); err != nil {
			c.log.Warning("dropping malformed error response: %v", err)
			return
		}
		peerErr := NewPeerError("Client.Request", eresp.Error.Code, eresp.Error.Message)
		c.metrics.PeerError(eresp.Error.Code)
		if c.bus != nil {
			c.bus.Pub(eventbus.SessionEvent{Err: peerErr}, eventbus.TopicPeerError)
		}
		c.resolvePending(eresp.ID, reply{err: peerErr})
	case FrameNotification:
		var note Notification
		if err := c.codec.Decode(data, &note); err != nil {
			c.log.Warning("dropping malformed notification: %v", err)
			return
		}
		c.dispatchNotification(note)
	default:
		c.log.Debug("dropping unexpected request frame on client session")
	}
}

func (c *Client) resolvePending(id Identifier, r reply) {
	c.pendingMu.Lock()
	ch, ok := c.pending[id.key()]
	if ok {
		delete(c.pending, id.key())
	}
	c.metrics.PendingRequests(len(c.pending))
	c.pendingMu.Unlock()
	if !ok {
		c.log.Warning("stray response for id %s, dropping", id.String())
		return
	}
	ch <- r
}

func (c *Client) dispatchNotification(note Notification) {
	c.handlersMu.RLock()
	handler, ok := c.handlers[note.Method]
	c.handlersMu.RUnlock()
	if !ok {
		c.log.Debug("no handler for notification %s, dropping", note.Method)
		return
	}
	go handler(note.Params)
}

func (c *Client) shutdown(cause error) {
	c.pendingMu.Lock()
	var err error
	if cause != nil {
		err = NewError(KindChannelClosed, "Client", fmt.Errorf("%w: %v", ErrChannelClosed, cause))
	} else {
		err = NewError(KindChannelClosed, "Client", ErrChannelClosed)
	}
	for key, ch := range c.pending {
		ch <- reply{err: err}
		delete(c.pending, key)
	}
	c.pendingMu.Unlock()

	c.handlersMu.Lock()
	c.handlers = nil
	c.handlersMu.Unlock()

	if c.bus != nil {
		c.bus.Pub(eventbus.SessionEvent{Err: cause}, eventbus.TopicSessionClosed)
	}
	c.metrics.SessionClosed()
	close(c.done)
}

// DialTimeout is a convenience constructor matching the spec's
// connect(transport, timeout) shape for callers that want a bounded
// handshake instead of an unbounded one via context.Background().
func DialTimeout(t transport.Transport, d time.Duration, opts ClientOptions) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return Connect(ctx, t, opts)
}
