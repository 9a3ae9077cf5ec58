// Package mcp's schema derivation turns a Go struct into the JSON schema the
// protocol expects a tool's inputSchema to be: an object with "properties"
// and (if non-empty) "required". Derivation leans on invopop/jsonschema for
// the type-to-schema mapping and layers one extra struct tag, `mcp`, for the
// overrides the protocol needs that invopop has no native knob for: forcing
// a field that lacks `,omitempty` to be treated as optional anyway.
package mcp

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
)

var schemaReflector = &jsonschema.Reflector{
	DoNotReference:           true,
	ExpandedStruct:           true,
	RequiredFromJSONSchemaTags: false,
}

// SchemaFor derives the JSON schema for argument struct type T, returning it
// as a raw JSON object value ready to use as a Tool's InputSchema.
//
// Field-level behaviour:
//   - `json:"name,omitempty"` renames to "name" and marks it optional.
//   - `json:"name"` (no omitempty) renames to "name" and marks it required.
//   - `json:"-"` excludes the field entirely.
//   - `jsonschema:"description=..."` attaches a description.
//   - `mcp:"optional"` forces a field out of "required" even without omitempty.
//   - `mcp:"required"` forces a field into "required" even with omitempty.
func SchemaFor[T any]() (json.RawMessage, error) {
	var zero T
	s := schemaReflector.Reflect(zero)
	applyOverrides(reflect.TypeOf(zero), s)
	return json.Marshal(s)
}

// applyOverrides walks t's fields looking for the `mcp:"optional"` /
// `mcp:"required"` tag and adjusts s.Required accordingly. invopop already
// applied json/jsonschema tags by the time s reaches here.
func applyOverrides(t reflect.Type, s *jsonschema.Schema) {
	if t == nil || t.Kind() != reflect.Struct {
		return
	}
	required := map[string]bool{}
	for _, name := range s.Required {
		required[name] = true
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		override := strings.TrimSpace(f.Tag.Get("mcp"))
		if override == "" {
			continue
		}
		name := wireName(f)
		if name == "" {
			continue
		}
		switch override {
		case "optional":
			delete(required, name)
		case "required":
			required[name] = true
		}
	}

	out := make([]string, 0, len(required))
	for name := range required {
		out = append(out, name)
	}
	s.Required = out
}

// wireName returns the JSON wire name a struct field will serialise under,
// honouring a `json:"name,..."` tag and falling back to the Go field name.
func wireName(f reflect.StructField) string {
	jsonTag := f.Tag.Get("json")
	if jsonTag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(jsonTag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
