package mcp

import (
	"encoding/json"
	"reflect"
	"testing"
)

type schemaFixture struct {
	Required    string `json:"required_field" jsonschema:"description=a required field"`
	Optional    string `json:"optional_field,omitempty"`
	ForcedOpt   string `json:"forced_optional" mcp:"optional"`
	ForcedReq   string `json:"forced_required,omitempty" mcp:"required"`
	Excluded    string `json:"-"`
}

func TestSchemaForAppliesOverrides(t *testing.T) {
	raw, err := SchemaFor[schemaFixture]()
	if err != nil {
		t.Fatalf("SchemaFor: %v", err)
	}
	var doc struct {
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshalling derived schema: %v", err)
	}
	required := map[string]bool{}
	for _, name := range doc.Required {
		required[name] = true
	}
	if !required["required_field"] {
		t.Errorf("required_field should be required by default (no omitempty)")
	}
	if required["optional_field"] {
		t.Errorf("optional_field should not be required (has omitempty)")
	}
	if required["forced_optional"] {
		t.Errorf("forced_optional should be excluded from required via mcp:\"optional\"")
	}
	if !required["forced_required"] {
		t.Errorf("forced_required should be required via mcp:\"required\" despite omitempty")
	}
	if required["Excluded"] {
		t.Errorf("json:\"-\" field leaked into the schema")
	}
}

func TestWireName(t *testing.T) {
	f, ok := reflect.TypeOf(schemaFixture{}).FieldByName("Required")
	if !ok {
		t.Fatalf("no field Required on schemaFixture")
	}
	if got := wireName(f); got != "required_field" {
		t.Errorf("wireName = %q, want %q", got, "required_field")
	}
}
