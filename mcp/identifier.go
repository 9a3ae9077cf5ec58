package mcp

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Identifier is a JSON-RPC request id: either a 64-bit integer or a string.
// The two variants are distinguishable, so Identifier never coerces one into
// the other when comparing or hashing.
type Identifier struct {
	str    string
	num    int64
	isStr  bool
	isNone bool // never set by the constructors; the zero value is the integer id 0
}

// NewIntID builds an integer identifier.
func NewIntID(n int64) Identifier { return Identifier{num: n} }

// NewStringID builds a string identifier.
func NewStringID(s string) Identifier { return Identifier{str: s, isStr: true} }

// IsString reports whether the identifier holds a string, as opposed to an integer.
func (id Identifier) IsString() bool { return id.isStr }

// Int returns the integer value. Only meaningful when IsString is false.
func (id Identifier) Int() int64 { return id.num }

// String returns the string value when IsString is true, otherwise the
// integer rendered as decimal text.
func (id Identifier) String() string {
	if id.isStr {
		return id.str
	}
	return strconv.FormatInt(id.num, 10)
}

// Equal reports whether two identifiers have the same variant and value.
func (id Identifier) Equal(other Identifier) bool {
	if id.isStr != other.isStr {
		return false
	}
	if id.isStr {
		return id.str == other.str
	}
	return id.num == other.num
}

// key returns a value suitable for use as a Go map key that can't collide
// across variants (an int64 id and a string id with the same text differ).
func (id Identifier) key() any {
	if id.isStr {
		return "s:" + id.str
	}
	return "n:" + strconv.FormatInt(id.num, 10)
}

// MarshalJSON renders the identifier the way the wire expects: a bare JSON
// number or a bare JSON string.
func (id Identifier) MarshalJSON() ([]byte, error) {
	if id.isStr {
		return json.Marshal(id.str)
	}
	return json.Marshal(id.num)
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *Identifier) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = Identifier{num: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = Identifier{str: s, isStr: true}
		return nil
	}
	return fmt.Errorf("mcp: identifier must be a JSON number or string, got %s", data)
}
