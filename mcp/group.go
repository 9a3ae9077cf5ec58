package mcp

import (
	"context"
	"sync"

	"github.com/ruaan-deysel/go-mcp-sdk/logger"
)

// Group fans operations out across a keyed set of Client sessions — a host
// that holds several live provider connections at once and wants a single
// "list every tool everywhere" or "call this tool on every session that has
// it" view without hand-rolling the fan-out/gather each time.
//
// A Group does not own the lifecycle of the Clients it holds: callers
// Connect each Client themselves and Add it, and are responsible for
// Close-ing it; Remove only forgets the reference.
type Group struct {
	log *logger.Logger

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{log: logger.Named("session-group"), clients: make(map[string]*Client)}
}

// Add registers client under key, replacing any previous entry for that key.
func (g *Group) Add(key string, client *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[key] = client
}

// Remove forgets the client registered under key, if any. It does not close
// the client.
func (g *Group) Remove(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, key)
}

// Get returns the client registered under key, if any.
func (g *Group) Get(key string) (*Client, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.clients[key]
	return c, ok
}

// Len reports how many clients are currently registered.
func (g *Group) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.clients)
}

func (g *Group) snapshot() map[string]*Client {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]*Client, len(g.clients))
	for k, v := range g.clients {
		out[k] = v
	}
	return out
}

// ToolsByKey maps a session's key to the tools listed from it.
type ToolsByKey struct {
	Key   string
	Tools []Tool
}

// ListToolsAll calls tools/list on every member session concurrently,
// collects the successes, and logs (rather than propagates) any individual
// session's failure — one unreachable provider should never blank out every
// other provider's tool list.
func (g *Group) ListToolsAll(ctx context.Context) []ToolsByKey {
	clients := g.snapshot()
	var wg sync.WaitGroup
	results := make(chan ToolsByKey, len(clients))

	for key, c := range clients {
		wg.Add(1)
		go func(key string, c *Client) {
			defer wg.Done()
			tools, err := c.ListTools(ctx)
			if err != nil {
				g.log.Warning("session %q: tools/list failed: %v", key, err)
				return
			}
			results <- ToolsByKey{Key: key, Tools: tools}
		}(key, c)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]ToolsByKey, 0, len(clients))
	for r := range results {
		out = append(out, r)
	}
	return out
}

// CallResult pairs a session key with the outcome of a CallTool invocation
// on that session.
type CallResult struct {
	Key    string
	Result *CallToolResult
	Err    error
}

// CallToolOn calls the named tool, with the given arguments, on every member
// session concurrently and returns every outcome — including failures, since
// callers of a targeted fan-out call usually want to know exactly which
// sessions did not have the tool or failed to run it, unlike ListToolsAll's
// best-effort aggregate.
func (g *Group) CallToolOn(ctx context.Context, name string, arguments any) []CallResult {
	clients := g.snapshot()
	var wg sync.WaitGroup
	results := make(chan CallResult, len(clients))

	for key, c := range clients {
		wg.Add(1)
		go func(key string, c *Client) {
			defer wg.Done()
			res, err := c.CallTool(ctx, name, arguments)
			results <- CallResult{Key: key, Result: res, Err: err}
		}(key, c)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]CallResult, 0, len(clients))
	for r := range results {
		out = append(out, r)
	}
	return out
}
