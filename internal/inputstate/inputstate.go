// Package inputstate reads typed snapshots of form-control values.
package inputstate

import (
	"strings"

	"github.com/v0xg/pomgen/internal/dom"
)

// State is the type and current value of a control
type State struct {
	Type  string `json:"type"`
	Value Value  `json:"value"`
}

// Meta is the input sub-record stored on a captured element
type Meta struct {
	Type        string `json:"type"`
	Value       Value  `json:"value"`
	NameAttr    string `json:"nameAttr,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	LabelText   string `json:"labelText,omitempty"`
}

// input types whose raw value is reported under their own type
var typedInputs = map[string]bool{
	"number":   true,
	"password": true,
	"email":    true,
	"date":     true,
	"time":     true,
	"datetime": true,
	"tel":      true,
	"url":      true,
	"color":    true,
	"range":    true,
}

// IsInputLike reports whether the element takes user input: native inputs,
// textareas, selects, and anything carrying contenteditable.
func IsInputLike(el *dom.Node) bool {
	if el == nil {
		return false
	}
	return el.Is("input", "textarea", "select") || el.HasAttr("contenteditable")
}

// Read extracts the control's type and current value
func Read(el *dom.Node) State {
	if el == nil {
		return State{Type: "text", Value: String("")}
	}

	switch el.Tag {
	case "input":
		t := strings.ToLower(strings.TrimSpace(el.AttrValue("type")))
		if t == "" {
			t = "text"
		}
		switch {
		case t == "checkbox" || t == "radio":
			return State{Type: t, Value: Bool(el.Checked)}
		case typedInputs[t]:
			return State{Type: t, Value: String(el.Value)}
		default:
			return State{Type: "text", Value: String(el.Value)}
		}

	case "textarea":
		return State{Type: "textarea", Value: String(el.Value)}

	case "select":
		if el.HasAttr("multiple") {
			selected := []string{}
			for _, o := range el.Options {
				if o.Selected {
					selected = append(selected, o.Value)
				}
			}
			return State{Type: "select-multiple", Value: List(selected...)}
		}
		for _, o := range el.Options {
			if o.Selected {
				return State{Type: "select-one", Value: String(o.Value)}
			}
		}
		return State{Type: "select-one", Value: String("")}
	}

	if el.HasAttr("contenteditable") {
		return State{Type: "contenteditable", Value: String(el.TrimmedText())}
	}
	return State{Type: "text", Value: String("")}
}

// LabelText resolves a human label: aria-label first, then a <label for=id>
// anywhere in the document, then an enclosing <label>.
func LabelText(el *dom.Node) (string, bool) {
	if el == nil {
		return "", false
	}
	if v := strings.TrimSpace(el.AttrValue("aria-label")); v != "" {
		return v, true
	}

	if id := el.ID(); id != "" {
		var text string
		el.Root().Walk(func(n *dom.Node) bool {
			if n.Tag == "label" && n.AttrValue("for") == id {
				text = n.TrimmedText()
				return false
			}
			return true
		})
		if text != "" {
			return text, true
		}
	}

	if l := el.Closest("label"); l != nil {
		if text := l.TrimmedText(); text != "" {
			return text, true
		}
	}
	return "", false
}

// Snapshot builds the full input sub-record for the element
func Snapshot(el *dom.Node) Meta {
	st := Read(el)
	label, _ := LabelText(el)
	return Meta{
		Type:        st.Type,
		Value:       st.Value,
		NameAttr:    el.AttrValue("name"),
		Placeholder: el.AttrValue("placeholder"),
		LabelText:   label,
	}
}

// Merge overlays next on prev. Type and value always take the new reading;
// descriptive fields keep their previous content when the new one is empty.
func Merge(prev *Meta, next Meta) Meta {
	if prev == nil {
		return next
	}
	out := *prev
	out.Type = next.Type
	out.Value = next.Value
	if next.NameAttr != "" {
		out.NameAttr = next.NameAttr
	}
	if next.Placeholder != "" {
		out.Placeholder = next.Placeholder
	}
	if next.LabelText != "" {
		out.LabelText = next.LabelText
	}
	return out
}
