package mcp

import (
	"context"
	"encoding/json"
	"fmt"
)

// RawToolHandler is the untyped tool handler shape: it receives the raw
// params JSON and is responsible for its own deserialisation.
type RawToolHandler func(ctx context.Context, handle *ConnectionHandle, params json.RawMessage) (*CallToolResult, error)

// ResourcesListHandler backs resources/list.
type ResourcesListHandler func(ctx context.Context) ([]Resource, error)

// ResourcesReadHandler backs resources/read.
type ResourcesReadHandler func(ctx context.Context, uri string) (*ReadResourceResult, error)

// PromptsListHandler backs prompts/list.
type PromptsListHandler func(ctx context.Context) ([]Prompt, error)

// PromptsGetHandler backs prompts/get.
type PromptsGetHandler func(ctx context.Context, name string, arguments json.RawMessage) (*GetPromptResult, error)

type toolEntry struct {
	meta    Tool
	handler RawToolHandler
}

// RegistryBuilder accumulates tool/resource/prompt registrations. After
// Build, the result is immutable and safe to share by reference across
// concurrent server sessions.
type RegistryBuilder struct {
	tools map[string]toolEntry
	err   error

	listResources ResourcesListHandler
	readResource  ResourcesReadHandler
	listPrompts   PromptsListHandler
	getPrompt     PromptsGetHandler
}

// NewRegistryBuilder creates an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{tools: make(map[string]toolEntry)}
}

// ToolOptions carries the optional parts of a tool's metadata.
type ToolOptions struct {
	Description string
	Annotations *Annotations
}

// Tool registers an untyped tool: handler receives the raw params JSON and
// deserialises it itself.
func (b *RegistryBuilder) Tool(name string, inputSchema json.RawMessage, opts ToolOptions, handler RawToolHandler) *RegistryBuilder {
	if _, exists := b.tools[name]; exists {
		b.err = fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, name)
		return b
	}
	b.tools[name] = toolEntry{
		meta: Tool{
			Name:        name,
			Description: opts.Description,
			InputSchema: inputSchema,
			Annotations: opts.Annotations,
		},
		handler: handler,
	}
	return b
}

// TypedToolHandler is a tool handler whose arguments are deserialised into T
// by the registry before the handler ever runs.
type TypedToolHandler[T any] func(ctx context.Context, handle *ConnectionHandle, args T) (*CallToolResult, error)

// TypedTool registers a typed tool. T's schema is derived via SchemaFor and
// used as both the advertised inputSchema and the text shown when arguments
// fail to deserialise. Per §4.5, only parameter deserialisation failures use
// the soft isError path; handler errors after a successful parse still
// become JSON-RPC internal-error responses (see ServerSession.dispatchToolCall).
func TypedTool[T any](b *RegistryBuilder, name string, opts ToolOptions, handler TypedToolHandler[T]) *RegistryBuilder {
	schema, err := SchemaFor[T]()
	if err != nil {
		b.err = fmt.Errorf("deriving schema for tool %q: %w", name, err)
		return b
	}
	raw := func(ctx context.Context, handle *ConnectionHandle, params json.RawMessage) (*CallToolResult, error) {
		var args T
		if len(params) > 0 {
			if err := json.Unmarshal(params, &args); err != nil {
				pretty, _ := json.MarshalIndent(json.RawMessage(schema), "", "  ")
				return &CallToolResult{
					IsError: true,
					Content: []Content{TextContent(fmt.Sprintf(
						"Invalid arguments for tool '%s': %v\nExpected schema:\n%s", name, err, pretty,
					))},
				}, nil
			}
		}
		return handler(ctx, handle, args)
	}
	return b.Tool(name, schema, opts, raw)
}

// Resources registers the single list/read handler pair for resources/list
// and resources/read.
func (b *RegistryBuilder) Resources(list ResourcesListHandler, read ResourcesReadHandler) *RegistryBuilder {
	b.listResources = list
	b.readResource = read
	return b
}

// Prompts registers the single list/get handler pair for prompts/list and
// prompts/get.
func (b *RegistryBuilder) Prompts(list PromptsListHandler, get PromptsGetHandler) *RegistryBuilder {
	b.listPrompts = list
	b.getPrompt = get
	return b
}

// Build finalises the registry. It returns the accumulated error from any
// Tool/TypedTool call, if one occurred.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	tools := make(map[string]toolEntry, len(b.tools))
	for k, v := range b.tools {
		tools[k] = v
	}
	return &Registry{
		tools:         tools,
		listResources: b.listResources,
		readResource:  b.readResource,
		listPrompts:   b.listPrompts,
		getPrompt:     b.getPrompt,
	}, nil
}

// Registry is an immutable, concurrency-safe collection of tool/resource/
// prompt handlers shared by every ServerSession for one server's lifetime.
type Registry struct {
	tools map[string]toolEntry

	listResources ResourcesListHandler
	readResource  ResourcesReadHandler
	listPrompts   PromptsListHandler
	getPrompt     PromptsGetHandler
}

// HasTools reports whether any tool is registered, which drives the
// server's tools capability advertisement during the handshake.
func (r *Registry) HasTools() bool { return len(r.tools) > 0 }

// ListTools returns every registered tool's metadata, in unspecified order.
func (r *Registry) ListTools() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, e := range r.tools {
		out = append(out, e.meta)
	}
	return out
}

// Tool looks up a registered tool's handler by name.
func (r *Registry) Tool(name string) (RawToolHandler, bool) {
	e, ok := r.tools[name]
	return e.handler, ok
}

// ListResources invokes the registered resources/list handler, if any.
func (r *Registry) ListResources(ctx context.Context) ([]Resource, bool, error) {
	if r.listResources == nil {
		return nil, false, nil
	}
	res, err := r.listResources(ctx)
	return res, true, err
}

// ReadResource invokes the registered resources/read handler, if any.
func (r *Registry) ReadResource(ctx context.Context, uri string) (*ReadResourceResult, bool, error) {
	if r.readResource == nil {
		return nil, false, nil
	}
	res, err := r.readResource(ctx, uri)
	return res, true, err
}

// ListPrompts invokes the registered prompts/list handler, if any.
func (r *Registry) ListPrompts(ctx context.Context) ([]Prompt, bool, error) {
	if r.listPrompts == nil {
		return nil, false, nil
	}
	res, err := r.listPrompts(ctx)
	return res, true, err
}

// GetPrompt invokes the registered prompts/get handler, if any.
func (r *Registry) GetPrompt(ctx context.Context, name string, arguments json.RawMessage) (*GetPromptResult, bool, error) {
	if r.getPrompt == nil {
		return nil, false, nil
	}
	res, err := r.getPrompt(ctx, name, arguments)
	return res, true, err
}
