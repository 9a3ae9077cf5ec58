// Package testutil provides test utilities and wire-format fixtures shared
// across this SDK's package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempDir creates a temporary directory and returns its path and a cleanup function.
func TempDir(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", "mcp-sdk-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	return dir, func() {
		//nolint:gosec,errcheck // G104: Cleanup in tests - errors are acceptable
		_ = os.RemoveAll(dir)
	}
}

// WriteFile writes content to a file in the given directory.
func WriteFile(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	//nolint:gosec // G301: Test directory permissions - 0755 is acceptable for tests
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	//nolint:gosec // G306: Test file permissions - 0644 is acceptable for tests
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}

// ReadFileContent reads file content or fails the test.
func ReadFileContent(t *testing.T, path string) string {
	t.Helper()
	//nolint:gosec // G304: Test utility - path comes from test code, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(data)
}

// SampleInitializeRequest returns a well-formed initialize request frame,
// unterminated (callers append the framing newline or Content-Length header
// their transport under test expects).
func SampleInitializeRequest(id int64) string {
	return `{"jsonrpc":"2.0","id":` + itoa(id) + `,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test-client","version":"0.0.1"}}}`
}

// SampleInitializeResponse returns a matching initialize response frame for
// a server advertising one tool.
func SampleInitializeResponse(id int64) string {
	return `{"jsonrpc":"2.0","id":` + itoa(id) + `,"result":{"protocolVersion":"2024-11-05","capabilities":{"tools":{"listChanged":false}},"serverInfo":{"name":"test-server","version":"0.0.1"}}}`
}

// SampleInitializedNotification returns the notification a client sends
// immediately after accepting an initialize response.
func SampleInitializedNotification() string {
	return `{"jsonrpc":"2.0","method":"notifications/initialized"}`
}

// SampleToolsCallRequest returns a tools/call request invoking name with the
// given raw JSON arguments object.
func SampleToolsCallRequest(id int64, name, argumentsJSON string) string {
	return `{"jsonrpc":"2.0","id":` + itoa(id) + `,"method":"tools/call","params":{"name":"` + name + `","arguments":` + argumentsJSON + `}}`
}

// SampleErrorResponse returns a JSON-RPC error envelope for the given id and
// standard error code.
func SampleErrorResponse(id int64, code int, message string) string {
	return `{"jsonrpc":"2.0","id":` + itoa(id) + `,"error":{"code":` + itoa(int64(code)) + `,"message":"` + message + `"}}`
}

// SampleMalformedFrame returns a syntactically broken JSON payload, used to
// exercise a transport's or codec's error path.
func SampleMalformedFrame() string {
	return `{"jsonrpc":"2.0","id":1,"method":`
}

// SampleServerConfigYAML returns a minimal config/serverconfig.go document
// overriding a subset of fields, to exercise the pointer-field merge-only-
// if-set behavior.
func SampleServerConfigYAML() string {
	return `port: 9090
log_level: debug
cors_origin: "https://example.test"
`
}

// SampleClientProfileINI returns a two-server config/clientprofile.go
// document.
func SampleClientProfileINI() string {
	return `[local]
transport=stdio
command=mcp-echo-server
args=--stdio

[remote]
transport=websocket
url=wss://mcp.example.test/ws
`
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
