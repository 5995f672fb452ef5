// Package capture turns user interaction with a page into captured element
// records. The Session is an explicit state machine fed with events; every
// event is reduced to commands applied to the page's collection, which is
// then persisted in one call.
package capture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/v0xg/pomgen/internal/dom"
	"github.com/v0xg/pomgen/internal/inputstate"
)

// maxTextContent bounds the stored text snapshot
const maxTextContent = 100

// Element is one captured page element
type Element struct {
	Name        string           `json:"name"`
	Selector    string           `json:"selector"`
	TagName     string           `json:"tagName"`
	Attributes  Attributes       `json:"attributes"`
	TextContent string           `json:"textContent,omitempty"`
	Input       *inputstate.Meta `json:"input,omitempty"`
}

// Attributes keeps attribute order through JSON round trips
type Attributes []dom.Attr

// Get returns the value of the named attribute
func (a Attributes) Get(name string) (string, bool) {
	for _, at := range a {
		if at.Name == name {
			return at.Value, true
		}
	}
	return "", false
}

// MarshalJSON writes an object with keys in attribute order
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, at := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(at.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(at.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping key order
func (a *Attributes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("attributes: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("attributes: expected object")
	}

	out := Attributes{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("attributes: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("attributes: expected string key")
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("attributes: %w", err)
		}
		s, ok := val.(string)
		if !ok {
			s = fmt.Sprint(val)
		}
		out = append(out, dom.Attr{Name: key, Value: s})
	}
	*a = out
	return nil
}

// NewElement snapshots an element's identity at capture time
func NewElement(name, selector string, el *dom.Node) Element {
	attrs := make(Attributes, len(el.Attrs))
	copy(attrs, el.Attrs)
	return Element{
		Name:        name,
		Selector:    selector,
		TagName:     el.Tag,
		Attributes:  attrs,
		TextContent: truncateText(el.TrimmedText(), maxTextContent),
	}
}

func truncateText(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Names returns the set of names in a collection
func Names(elements []Element) map[string]bool {
	names := make(map[string]bool, len(elements))
	for _, e := range elements {
		names[e.Name] = true
	}
	return names
}

// IndexOf returns the position of the element with the selector, or -1
func IndexOf(elements []Element, selector string) int {
	for i, e := range elements {
		if e.Selector == selector {
			return i
		}
	}
	return -1
}
