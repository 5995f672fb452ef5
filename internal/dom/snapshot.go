package dom

import (
	"fmt"
	"strings"
)

// Rect is a bounding box in CSS pixels
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Link is one level of an element's ancestor chain as serialized by the page
// script. Siblings lists the tag names of every element child of the parent,
// Index is this element's position in that list.
type Link struct {
	Tag      string     `json:"tag"`
	Attrs    [][]string `json:"attrs,omitempty"`
	Siblings []string   `json:"siblings,omitempty"`
	Index    int        `json:"index"`
	Text     string     `json:"text,omitempty"`
}

// Snapshot is an element captured in a live page
type Snapshot struct {
	URL      string   `json:"url"`
	Chain    []Link   `json:"chain"` // element first, document element last
	Text     string   `json:"text,omitempty"`
	Value    string   `json:"value,omitempty"`
	Checked  bool     `json:"checked,omitempty"`
	Options  []Option `json:"options,omitempty"`
	ForLabel string   `json:"forLabel,omitempty"` // text of a <label for=id> targeting the element
	Rect     Rect     `json:"rect"`
}

// FromSnapshot rebuilds the element and enough of its surroundings for
// locator derivation and label lookup. Siblings not on the chain become bare
// placeholder nodes carrying only their tag.
func FromSnapshot(s Snapshot) (*Node, error) {
	if len(s.Chain) == 0 {
		return nil, fmt.Errorf("snapshot: empty chain")
	}

	var parent *Node
	var el *Node
	for i := len(s.Chain) - 1; i >= 0; i-- {
		l := s.Chain[i]
		n := &Node{Tag: strings.ToLower(l.Tag), Attrs: toAttrs(l.Attrs), Text: l.Text, Parent: parent}
		if parent != nil {
			linkChild(parent, n, l)
		}
		parent = n
		el = n
	}

	el.Text = s.Text
	el.Value = s.Value
	el.Checked = s.Checked
	el.Options = s.Options

	if s.ForLabel != "" {
		if id := el.ID(); id != "" {
			root := el.Root()
			root.Children = append(root.Children, &Node{
				Tag:    "label",
				Attrs:  []Attr{{Name: "for", Value: id}},
				Text:   s.ForLabel,
				Parent: root,
			})
		}
	}
	return el, nil
}

func linkChild(parent, n *Node, l Link) {
	if l.Index < 0 || l.Index >= len(l.Siblings) {
		parent.Children = append(parent.Children, n)
		return
	}
	for i, tag := range l.Siblings {
		if i == l.Index {
			parent.Children = append(parent.Children, n)
			continue
		}
		parent.Children = append(parent.Children, &Node{Tag: strings.ToLower(tag), Parent: parent})
	}
}

func toAttrs(pairs [][]string) []Attr {
	if len(pairs) == 0 {
		return nil
	}
	attrs := make([]Attr, 0, len(pairs))
	for _, p := range pairs {
		if len(p) != 2 {
			continue
		}
		attrs = append(attrs, Attr{Name: p[0], Value: p[1]})
	}
	return attrs
}
