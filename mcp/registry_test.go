package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestRegistryBuilderToolDuplicateNameFails(t *testing.T) {
	b := NewRegistryBuilder()
	handler := func(ctx context.Context, h *ConnectionHandle, params json.RawMessage) (*CallToolResult, error) {
		return &CallToolResult{}, nil
	}
	b.Tool("dup", json.RawMessage(`{}`), ToolOptions{}, handler)
	b.Tool("dup", json.RawMessage(`{}`), ToolOptions{}, handler)
	if _, err := b.Build(); !errors.Is(err, ErrToolAlreadyRegistered) {
		t.Fatalf("expected Build to fail with ErrToolAlreadyRegistered, got %v", err)
	}
}

func TestRegistryListAndLookupTool(t *testing.T) {
	b := NewRegistryBuilder()
	b.Tool("ping", json.RawMessage(`{}`), ToolOptions{Description: "pings"},
		func(ctx context.Context, h *ConnectionHandle, params json.RawMessage) (*CallToolResult, error) {
			return &CallToolResult{Content: []Content{TextContent("pong")}}, nil
		})
	reg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !reg.HasTools() {
		t.Fatalf("HasTools() = false, want true")
	}
	tools := reg.ListTools()
	if len(tools) != 1 || tools[0].Name != "ping" {
		t.Fatalf("ListTools() = %+v, want one tool named ping", tools)
	}
	handler, ok := reg.Tool("ping")
	if !ok {
		t.Fatalf("Tool(\"ping\") not found")
	}
	result, err := handler(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(result.Content) != 1 || result.Content[0].Text != "pong" {
		t.Fatalf("handler result = %+v, want text \"pong\"", result)
	}
	if _, ok := reg.Tool("missing"); ok {
		t.Fatalf("Tool(\"missing\") unexpectedly found")
	}
}

type echoTypedArgs struct {
	Message string `json:"message"`
}

func TestTypedToolSoftErrorOnBadArguments(t *testing.T) {
	b := NewRegistryBuilder()
	TypedTool(b, "echo", ToolOptions{}, func(ctx context.Context, h *ConnectionHandle, args echoTypedArgs) (*CallToolResult, error) {
		return &CallToolResult{Content: []Content{TextContent(args.Message)}}, nil
	})
	reg, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	handler, ok := reg.Tool("echo")
	if !ok {
		t.Fatalf("echo tool not registered")
	}

	result, err := handler(context.Background(), nil, json.RawMessage(`{"message":123}`))
	if err != nil {
		t.Fatalf("a deserialisation failure must take the soft isError path, not a hard error: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected IsError = true for malformed typed-tool arguments")
	}

	result, err = handler(context.Background(), nil, json.RawMessage(`{"message":"hi"}`))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result.IsError || result.Content[0].Text != "hi" {
		t.Fatalf("handler result = %+v, want non-error echo of \"hi\"", result)
	}
}

func TestRegistryResourcesUnregisteredReturnsFalse(t *testing.T) {
	reg, err := NewRegistryBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	_, handled, err := reg.ListResources(context.Background())
	if handled || err != nil {
		t.Fatalf("ListResources on a registry with no resources handler should report handled=false, err=nil; got handled=%v err=%v", handled, err)
	}
}
