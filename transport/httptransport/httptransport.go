// Package httptransport adapts a stateless HTTP POST endpoint into an
// mcp/transport.Transport, so a ServerSession can run behind an ordinary
// net/http router instead of a long-lived stream. Each POST body carries one
// JSON-RPC request or notification; the handler blocks until the matching
// response has been produced by the session loop, mirroring request/reply
// semantics over a transport that has no persistent connection of its own.
//
// Message correlation is done against the wire shapes from
// github.com/metoro-io/mcp-golang/transport rather than hand-rolled
// lookalike structs, so a host mixing this package with tooling built
// directly against that library sees identical framing.
package httptransport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	mcpwire "github.com/metoro-io/mcp-golang/transport"
)

// pendingReply tracks one HTTP handler call waiting for its response: the
// channel it blocks on, and the id the peer originally sent, restored onto
// the reply before it is written back (the internal sequential key never
// leaves this package).
type pendingReply struct {
	replyC     chan string
	originalID json.RawMessage
}

// Transport implements transport.Transport over stateless HTTP POSTs. One
// Transport serves one logical MCP connection: concurrent POSTs to its
// Handler are treated as concurrent in-flight requests on that connection.
type Transport struct {
	mu          sync.Mutex
	nextKey     int64
	responseMap map[int64]pendingReply
	inbound     chan string
	closed      chan struct{}
	closeOnce   sync.Once
}

// New creates an httptransport.Transport. Mount Handler on a route and pass
// the Transport to mcp.NewServerSession / mcp.ServerSession.Serve.
func New() *Transport {
	return &Transport{
		responseMap: make(map[int64]pendingReply),
		inbound:     make(chan string),
		closed:      make(chan struct{}),
	}
}

// Send implements transport.Transport. It inspects the outgoing frame's id
// and routes it to the HTTP handler goroutine that is blocked waiting for
// that request's reply, restoring the id the peer originally sent before
// handing the message back.
func (t *Transport) Send(message string) error {
	id, ok := t.extractID(message)
	if !ok {
		return fmt.Errorf("httptransport: outbound message carries no id, cannot route: %s", message)
	}

	t.mu.Lock()
	pending, found := t.responseMap[id]
	t.mu.Unlock()
	if !found {
		return fmt.Errorf("httptransport: no pending HTTP request for id %d", id)
	}

	restored, err := restoreID(message, pending.originalID)
	if err != nil {
		return fmt.Errorf("httptransport: restoring original id: %w", err)
	}
	pending.replyC <- restored
	return nil
}

// Recv implements transport.Transport, yielding each POSTed body in turn.
func (t *Transport) Recv() (string, bool, error) {
	select {
	case msg := <-t.inbound:
		return msg, true, nil
	case <-t.closed:
		return "", false, nil
	}
}

// Close implements transport.Transport, unblocking any Recv and failing any
// in-flight Handler calls still waiting on a reply.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() { close(t.closed) })
	return nil
}

// Handler returns an http.HandlerFunc that feeds one POST body in as an
// inbound message and blocks until the session loop calls Send with the
// matching response, mirroring the teacher's StdHTTPTransport request/reply
// pairing but keyed against this package's own id allocator instead of
// reusing the peer-supplied id directly, so colliding client-chosen ids
// across concurrent requests never alias the same response channel.
func (t *Transport) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "only POST is supported", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		key, originalID, rewritten, isNotification, err := t.rewriteID(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if isNotification {
			select {
			case t.inbound <- string(rewritten):
			case <-t.closed:
				http.Error(w, "transport closed", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusAccepted)
			return
		}

		replyC := make(chan string, 1)
		t.mu.Lock()
		t.responseMap[key] = pendingReply{replyC: replyC, originalID: originalID}
		t.mu.Unlock()
		defer func() {
			t.mu.Lock()
			delete(t.responseMap, key)
			t.mu.Unlock()
		}()

		select {
		case t.inbound <- string(rewritten):
		case <-t.closed:
			http.Error(w, "transport closed", http.StatusServiceUnavailable)
			return
		}

		select {
		case reply := <-replyC:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(reply))
		case <-t.closed:
			http.Error(w, "transport closed", http.StatusServiceUnavailable)
		case <-r.Context().Done():
		}
	}
}

// rewriteID decodes body using the mcp-golang request shape and, if it
// carries no id, treats it as a notification; otherwise it substitutes our
// own sequential key for whatever id the peer sent so two concurrent POSTs
// can never collide in responseMap, returning both the rewritten body and
// the peer's original id for later restoration by restoreID.
func (t *Transport) rewriteID(body []byte) (key int64, originalID json.RawMessage, rewritten []byte, isNotification bool, err error) {
	var env struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return 0, nil, nil, false, fmt.Errorf("httptransport: body is not a JSON-RPC frame: %w", err)
	}
	if env.Method == "" {
		return 0, nil, nil, false, fmt.Errorf("httptransport: body carries no method")
	}
	if len(env.ID) == 0 {
		return 0, nil, body, true, nil
	}

	var req mcpwire.BaseJSONRPCRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return 0, nil, nil, false, fmt.Errorf("httptransport: body is not a valid JSON-RPC request: %w", err)
	}

	t.mu.Lock()
	key = t.nextKey
	t.nextKey++
	t.mu.Unlock()

	req.Id = mcpwire.RequestId(key)
	rewritten, err = json.Marshal(req)
	if err != nil {
		return 0, nil, nil, false, fmt.Errorf("httptransport: re-marshalling request: %w", err)
	}
	return key, env.ID, rewritten, false, nil
}

// extractID reads the internal sequential id off an outbound response or
// error-response frame.
func (t *Transport) extractID(message string) (int64, bool) {
	var env struct {
		ID *int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(message), &env); err != nil || env.ID == nil {
		return 0, false
	}
	return *env.ID, true
}

// restoreID replaces the id field of an outbound JSON-RPC frame with the
// peer's original id before it is written back over HTTP.
func restoreID(message string, originalID json.RawMessage) (string, error) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal([]byte(message), &generic); err != nil {
		return "", err
	}
	generic["id"] = originalID
	out, err := json.Marshal(generic)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
