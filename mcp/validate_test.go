package mcp

import (
	"path/filepath"
	"testing"

	"github.com/ruaan-deysel/go-mcp-sdk/internal/testutil"
)

func TestFileValidatorStructuralOnlyWhenSchemaMissing(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	v, err := NewFileValidator(filepath.Join(dir, "schema.json"))
	if err != nil {
		t.Fatalf("NewFileValidator: %v", err)
	}
	defer func() { _ = v.Close() }()

	if err := v.Validate([]byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)); err != nil {
		t.Fatalf("Validate should accept a well-formed request even without a bundled schema loaded: %v", err)
	}
}

func TestFileValidatorRejectsWrongJSONRPCVersion(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	v, err := NewFileValidator(filepath.Join(dir, "schema.json"))
	if err != nil {
		t.Fatalf("NewFileValidator: %v", err)
	}
	defer func() { _ = v.Close() }()

	if err := v.Validate([]byte(`{"jsonrpc":"1.0","id":1,"method":"tools/list"}`)); err == nil {
		t.Fatalf("expected Validate to reject a jsonrpc version other than \"2.0\"")
	}
}

func TestFileValidatorRejectsUnclassifiableFrame(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	v, err := NewFileValidator(filepath.Join(dir, "schema.json"))
	if err != nil {
		t.Fatalf("NewFileValidator: %v", err)
	}
	defer func() { _ = v.Close() }()

	if err := v.Validate([]byte(`{"jsonrpc":"2.0"}`)); err == nil {
		t.Fatalf("expected Validate to reject a frame with no id and no method")
	}
}

func TestFileValidatorLoadsBundledSchema(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	path := testutil.WriteFile(t, dir, "schema.json", `{"type":"object"}`)

	v, err := NewFileValidator(path)
	if err != nil {
		t.Fatalf("NewFileValidator: %v", err)
	}
	defer func() { _ = v.Close() }()

	if !v.loaded {
		t.Fatalf("expected the bundled schema to load synchronously in NewFileValidator")
	}
}
