package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ruaan-deysel/go-mcp-sdk/logger"
	"github.com/ruaan-deysel/go-mcp-sdk/mcp/internal/eventbus"
	"github.com/ruaan-deysel/go-mcp-sdk/transport"
)

// ServerOptions configures one accepted connection's ServerSession.
type ServerOptions struct {
	// Validator runs schema validation on outbound records. Nil disables it.
	Validator Validator
	// Metrics receives session/request counters. Nil uses NoopMetrics.
	Metrics Metrics
	// Bus, if set, publishes session lifecycle events.
	Bus *eventbus.Bus
	// ServerInfo identifies this server in the handshake response.
	ServerInfo Implementation
	// SessionID names this connection for logging and ConnectionHandle.SessionID.
	SessionID string
	// OutboxSize bounds the per-session notification outbox. Zero uses a default.
	OutboxSize int
}

// ServerSession is one accepted connection: it owns the transport end, holds
// a reference to the shared Registry, and runs the dispatch loop until the
// transport closes. Construct one per connection and call Serve.
type ServerSession struct {
	t        transport.Transport
	registry *Registry
	codec    *Codec
	log      *logger.Logger
	metrics  Metrics
	bus      *eventbus.Bus

	sessionID   string
	serverInfo  Implementation
	initialized bool

	outbox  chan Notification
	inbound chan inboundMsg
	closed  chan struct{}
}

// NewServerSession constructs a session for one accepted connection. Call
// Serve to run its dispatch loop.
func NewServerSession(t transport.Transport, registry *Registry, opts ServerOptions) *ServerSession {
	if opts.Metrics == nil {
		opts.Metrics = NoopMetrics
	}
	if opts.ServerInfo.Name == "" {
		opts.ServerInfo = Implementation{Name: "go-mcp-sdk", Version: "0.1.0"}
	}
	if opts.SessionID == "" {
		opts.SessionID = fmt.Sprintf("session-%d", time.Now().UnixNano())
	}
	outboxSize := opts.OutboxSize
	if outboxSize <= 0 {
		outboxSize = 32
	}
	return &ServerSession{
		t:          t,
		registry:   registry,
		codec:      NewCodec(opts.Validator),
		log:        logger.Named(opts.SessionID),
		metrics:    opts.Metrics,
		bus:        opts.Bus,
		sessionID:  opts.SessionID,
		serverInfo: opts.ServerInfo,
		outbox:     make(chan Notification, outboxSize),
		inbound:    make(chan inboundMsg, 1),
		closed:     make(chan struct{}),
	}
}

// Serve runs the dispatch loop until the transport closes, an unrecoverable
// read error occurs, or ctx is cancelled. It returns the terminal cause, or
// nil on an orderly close.
func (s *ServerSession) Serve(ctx context.Context) error {
	go s.readLoop()
	if s.bus != nil {
		s.bus.Pub(eventbus.SessionEvent{SessionID: s.sessionID}, eventbus.TopicSessionOpened)
	}

	var terminal error
loop:
	for {
		select {
		case note := <-s.outbox:
			s.sendNotification(note)
			continue
		default:
		}

		select {
		case note := <-s.outbox:
			s.sendNotification(note)
		case im := <-s.inbound:
			if im.closed {
				break loop
			}
			if im.err != nil {
				terminal = im.err
				break loop
			}
			if err := s.handleInbound(ctx, im.data); err != nil {
				terminal = err
				break loop
			}
		case <-ctx.Done():
			terminal = ctx.Err()
			break loop
		}
	}

	s.drainOutbox()
	close(s.closed)
	s.metrics.SessionClosed()
	if s.bus != nil {
		s.bus.Pub(eventbus.SessionEvent{SessionID: s.sessionID, Err: terminal}, eventbus.TopicSessionClosed)
	}
	return terminal
}

func (s *ServerSession) readLoop() {
	for {
		msg, ok, err := s.t.Recv()
		if err != nil {
			select {
			case s.inbound <- inboundMsg{err: err}:
			case <-s.closed:
			}
			return
		}
		if !ok {
			select {
			case s.inbound <- inboundMsg{closed: true}:
			case <-s.closed:
			}
			return
		}
		select {
		case s.inbound <- inboundMsg{data: msg}:
		case <-s.closed:
			return
		}
	}
}

// drainOutbox flushes whatever notifications are already queued, on a
// best-effort basis, after the loop has decided to stop.
func (s *ServerSession) drainOutbox() {
	for {
		select {
		case note := <-s.outbox:
			s.sendNotification(note)
		default:
			return
		}
	}
}

func (s *ServerSession) sendNotification(note Notification) {
	data, err := s.codec.Encode(note)
	if err != nil {
		s.log.Warning("failed to encode outbound notification %s: %v", note.Method, err)
		return
	}
	if err := s.t.Send(string(data)); err != nil {
		s.log.Warning("failed to send outbound notification %s: %v", note.Method, err)
	}
}

func (s *ServerSession) handleInbound(ctx context.Context, raw string) error {
	data := []byte(raw)
	if IsBlank(data) {
		return nil
	}
	kind, err := Classify(data)
	if err != nil {
		s.log.Warning("dropping unclassifiable message: %v", err)
		return nil
	}

	if kind == FrameNotification {
		var note Notification
		if err := s.codec.Decode(data, &note); err != nil {
			s.log.Warning("dropping malformed notification: %v", err)
			return nil
		}
		if note.Method != MethodInitialized {
			s.log.Debug("ignoring notification %s", note.Method)
		}
		return nil
	}

	if kind != FrameRequest {
		s.log.Warning("dropping unexpected response-shaped frame on server session")
		return nil
	}

	var req Request
	if err := s.codec.Decode(data, &req); err != nil {
		s.log.Warning("dropping malformed request: %v", err)
		return nil
	}

	if !s.initialized {
		if req.Method != MethodInitialize {
			return NewError(KindOther, "ServerSession", fmt.Errorf("%w: first message was %q", ErrHandshakeRequired, req.Method))
		}
		return s.handleInitialize(req)
	}

	if req.Method == MethodInitialize {
		s.replyError(req.ID, CodeInvalidParams, ErrAlreadyInitialized.Error())
		return ErrAlreadyInitialized
	}

	start := time.Now()
	s.dispatch(ctx, req)
	s.metrics.RequestDispatched(req.Method, time.Since(start))
	return nil
}

func (s *ServerSession) handleInitialize(req Request) error {
	var params InitializeParams
	if len(req.Params) > 0 {
		if err := s.codec.Decode(req.Params, &params); err != nil {
			s.replyError(req.ID, CodeInvalidParams, err.Error())
			return nil
		}
	}

	var caps ServerCapabilities
	if s.registry.HasTools() {
		caps.Tools = &ToolListChangedCapability{ListChanged: false}
	}
	result := InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    caps,
		ServerInfo:      s.serverInfo,
	}
	s.replyResult(req.ID, result)
	s.initialized = true
	s.metrics.SessionOpened()
	return nil
}

func (s *ServerSession) dispatch(ctx context.Context, req Request) {
	switch req.Method {
	case MethodToolsList:
		s.replyResult(req.ID, ListToolsResult{Tools: s.registry.ListTools()})

	case MethodToolsCall:
		s.dispatchToolCall(ctx, req)

	case MethodResourcesList:
		resources, has, err := s.registry.ListResources(ctx)
		if !has {
			s.replyError(req.ID, CodeMethodNotFound, fmt.Sprintf("%s: no handler registered", req.Method))
			return
		}
		if err != nil {
			s.replyError(req.ID, CodeInternalError, err.Error())
			return
		}
		s.replyResult(req.ID, ListResourcesResult{Resources: resources})

	case MethodResourcesRead:
		var params ReadResourceParams
		if err := s.decodeParams(req, &params); err != nil {
			return
		}
		result, has, err := s.registry.ReadResource(ctx, params.URI)
		if !has {
			s.replyError(req.ID, CodeMethodNotFound, fmt.Sprintf("%s: no handler registered", req.Method))
			return
		}
		if err != nil {
			s.replyError(req.ID, CodeInternalError, err.Error())
			return
		}
		s.replyResult(req.ID, result)

	case MethodPromptsList:
		prompts, has, err := s.registry.ListPrompts(ctx)
		if !has {
			s.replyError(req.ID, CodeMethodNotFound, fmt.Sprintf("%s: no handler registered", req.Method))
			return
		}
		if err != nil {
			s.replyError(req.ID, CodeInternalError, err.Error())
			return
		}
		s.replyResult(req.ID, ListPromptsResult{Prompts: prompts})

	case MethodPromptsGet:
		var params GetPromptParams
		if err := s.decodeParams(req, &params); err != nil {
			return
		}
		result, has, err := s.registry.GetPrompt(ctx, params.Name, params.Arguments)
		if !has {
			s.replyError(req.ID, CodeMethodNotFound, fmt.Sprintf("%s: no handler registered", req.Method))
			return
		}
		if err != nil {
			s.replyError(req.ID, CodeInternalError, err.Error())
			return
		}
		s.replyResult(req.ID, result)

	default:
		s.replyError(req.ID, CodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
}

func (s *ServerSession) dispatchToolCall(ctx context.Context, req Request) {
	var params CallToolParams
	if err := s.decodeParams(req, &params); err != nil {
		return
	}
	handler, ok := s.registry.Tool(params.Name)
	if !ok {
		s.replyError(req.ID, CodeMethodNotFound, fmt.Sprintf("tool %q not found", params.Name))
		return
	}
	handle := newConnectionHandle(s.sessionID, req.ID, s.log, s.outbox, s.closed)
	result, err := handler(ctx, handle, params.Arguments)
	if err != nil {
		s.replyError(req.ID, CodeInternalError, err.Error())
		return
	}
	s.replyResult(req.ID, result)
}

func (s *ServerSession) decodeParams(req Request, v any) error {
	if len(req.Params) > 0 {
		if err := s.codec.Decode(req.Params, v); err != nil {
			s.replyError(req.ID, CodeInvalidParams, err.Error())
			return err
		}
	}
	return nil
}

func (s *ServerSession) replyResult(id Identifier, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		s.replyError(id, CodeInternalError, err.Error())
		return
	}
	out, err := s.codec.Encode(Response{JSONRPC: "2.0", ID: id, Result: data})
	if err != nil {
		s.log.Error("failed to encode response for id %s: %v", id.String(), err)
		return
	}
	if err := s.t.Send(string(out)); err != nil {
		s.log.Error("failed to send response for id %s: %v", id.String(), err)
	}
}

func (s *ServerSession) replyError(id Identifier, code int, message string) {
	out, err := s.codec.Encode(ErrorResponse{JSONRPC: "2.0", ID: id, Error: ErrorObject{Code: code, Message: message}})
	if err != nil {
		s.log.Error("failed to encode error response for id %s: %v", id.String(), err)
		return
	}
	if err := s.t.Send(string(out)); err != nil {
		s.log.Error("failed to send error response for id %s: %v", id.String(), err)
	}
}
