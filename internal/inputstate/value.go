package inputstate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindList
)

// Value is the current value of a control: a bool for checkboxes and radios,
// a list for multi-selects, a string for everything else.
type Value struct {
	kind valueKind
	b    bool
	s    string
	list []string
}

// Bool wraps a checked state
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// String wraps a text value
func String(s string) Value { return Value{kind: kindString, s: s} }

// List wraps the selected values of a multi-select
func List(values ...string) Value {
	if values == nil {
		values = []string{}
	}
	return Value{kind: kindList, list: values}
}

// IsBool reports whether the value is a checked state
func (v Value) IsBool() bool { return v.kind == kindBool }

// IsList reports whether the value is a multi-select list
func (v Value) IsList() bool { return v.kind == kindList }

// AsBool returns the checked state
func (v Value) AsBool() bool { return v.b }

// AsString returns the text value
func (v Value) AsString() string { return v.s }

// AsList returns the selected values
func (v Value) AsList() []string { return v.list }

// Equal compares kind and content
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case kindBool:
		return v.b == o.b
	case kindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	default:
		return v.s == o.s
	}
}

func (v Value) String() string {
	switch v.kind {
	case kindBool:
		return fmt.Sprint(v.b)
	case kindList:
		return fmt.Sprint(v.list)
	default:
		return v.s
	}
}

// MarshalJSON encodes the value as a JSON boolean, array or string
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindBool:
		return json.Marshal(v.b)
	case kindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.s)
	}
}

// UnmarshalJSON accepts a boolean, an array of strings or a string
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = String("")
		return nil
	}

	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("input value: %w", err)
		}
		*v = Bool(b)
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("input value: %w", err)
		}
		*v = List(list...)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("input value: %w", err)
		}
		*v = String(s)
	default:
		// numbers written by other tools keep their literal form
		*v = String(string(data))
	}
	return nil
}
