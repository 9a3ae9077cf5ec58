package mcp

import "encoding/json"

// ProtocolVersion is the MCP wire version this SDK speaks.
const ProtocolVersion = "2024-11-05"

// Request is a JSON-RPC request envelope: has id, method, params.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      Identifier      `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC success response envelope: has id, result.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      Identifier      `json:"id"`
	Result  json.RawMessage `json:"result"`
}

// ErrorObject is the `error` member of an error response.
type ErrorObject struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ErrorResponse is a JSON-RPC error response envelope: has id, error.
type ErrorResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      Identifier  `json:"id"`
	Error   ErrorObject `json:"error"`
}

// Notification is a JSON-RPC notification envelope: has method, optional
// params, and no id.
type Notification struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// envelope is the minimal shape needed to classify an arbitrary inbound
// frame before picking the concrete type to unmarshal into.
type envelope struct {
	ID     *json.RawMessage `json:"id"`
	Method string           `json:"method"`
	Result json.RawMessage  `json:"result"`
	Error  *ErrorObject     `json:"error"`
}

// ToolListChangedCapability describes whether a side cares about, or will
// emit, tools/list_changed notifications.
type ToolListChangedCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ClientCapabilities is the capability set a client declares during
// initialize. Unknown fields on the wire are ignored, which json.Unmarshal
// already does by default; no DisallowUnknownFields is used.
type ClientCapabilities struct {
	Tools *ToolListChangedCapability `json:"tools,omitempty"`
}

// ServerCapabilities is the capability set a server declares in its
// InitializeResult.
type ServerCapabilities struct {
	Tools *ToolListChangedCapability `json:"tools,omitempty"`
}

// Implementation identifies a protocol participant (name + version) in the
// handshake, mirroring the wire's clientInfo/serverInfo objects.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeParams is the params object of the initialize request.
type InitializeParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ClientCapabilities `json:"capabilities"`
	ClientInfo      Implementation     `json:"clientInfo"`
}

// InitializeResult is the result object of the initialize response.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      Implementation     `json:"serverInfo"`
}

// Annotations are optional hints attached to a Tool.
type Annotations struct {
	Title           string `json:"title,omitempty"`
	ReadOnlyHint    bool   `json:"readOnlyHint,omitempty"`
	DestructiveHint bool   `json:"destructiveHint,omitempty"`
}

// Tool describes one invocable endpoint exposed by a server.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema"`
	Annotations *Annotations    `json:"annotations,omitempty"`
}

// ListToolsResult is the result object of tools/list.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolParams is the params object of tools/call.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ResourceContents is the body of a resource, either textual or binary.
// Exactly one of Text or Blob is populated, matching the tagged-union shape
// of a resource content item on the wire.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"` // base64
}

// ContentType tags the variant of a Content item.
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentImage    ContentType = "image"
	ContentResource ContentType = "resource"
)

// Content is a tagged variant: text{text}, image{data,mimeType}, or
// resource{resource}. Only the fields matching Type are populated.
type Content struct {
	Type     ContentType       `json:"type"`
	Text     string            `json:"text,omitempty"`
	Data     string            `json:"data,omitempty"` // base64, image only
	MimeType string            `json:"mimeType,omitempty"`
	Resource *ResourceContents `json:"resource,omitempty"`
}

// TextContent builds a text content item.
func TextContent(text string) Content { return Content{Type: ContentText, Text: text} }

// ImageContent builds an image content item.
func ImageContent(data, mimeType string) Content {
	return Content{Type: ContentImage, Data: data, MimeType: mimeType}
}

// ResourceContent builds a resource content item.
func ResourceContent(r ResourceContents) Content {
	return Content{Type: ContentResource, Resource: &r}
}

// CallToolResult is the result of invoking a tool: an ordered list of
// content items plus an isError flag.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

// Resource is listable metadata for a server-exposed resource.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ListResourcesResult is the result object of resources/list.
type ListResourcesResult struct {
	Resources []Resource `json:"resources"`
}

// ReadResourceParams is the params object of resources/read.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ReadResourceResult is the result object of resources/read.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// PromptArgument describes one named argument a prompt accepts.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Prompt is listable metadata for a server-exposed prompt template.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// ListPromptsResult is the result object of prompts/list.
type ListPromptsResult struct {
	Prompts []Prompt `json:"prompts"`
}

// GetPromptParams is the params object of prompts/get.
type GetPromptParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// PromptMessage is one turn of a rendered prompt.
type PromptMessage struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// GetPromptResult is the result object of prompts/get.
type GetPromptResult struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

// Method names of the MCP wire protocol.
const (
	MethodInitialize          = "initialize"
	MethodInitialized         = "notifications/initialized"
	MethodToolsList           = "tools/list"
	MethodToolsCall           = "tools/call"
	MethodResourcesList       = "resources/list"
	MethodResourcesRead       = "resources/read"
	MethodPromptsList         = "prompts/list"
	MethodPromptsGet          = "prompts/get"
	MethodToolsListChanged    = "notifications/tools/list_changed"
)
