// Package dom models the element tree the capture engine works on.
//
// A tree comes from one of two places: static HTML parsed with
// golang.org/x/net/html, or a snapshot serialized by the page script running
// in a live browser tab. Both produce the same *Node shape, so locator,
// naming and input-state logic never touch a browser.
package dom

import (
	"strings"
)

// Attr is a single attribute in document order
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Option is an <option> of a select control
type Option struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// Node is an element. Text and form state are snapshots: for parsed HTML they
// come from markup, for page snapshots they carry the live values.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Parent   *Node
	Children []*Node

	Value   string
	Checked bool
	Options []Option
}

// Attr returns the attribute value and whether it is present
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrValue returns the attribute value or "" when absent
func (n *Node) AttrValue(name string) string {
	v, _ := n.Attr(name)
	return v
}

// HasAttr reports whether the attribute is present, even if empty
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// ID returns the id attribute
func (n *Node) ID() string {
	return n.AttrValue("id")
}

// Is reports whether the node has one of the given tag names
func (n *Node) Is(tags ...string) bool {
	if n == nil {
		return false
	}
	for _, t := range tags {
		if n.Tag == t {
			return true
		}
	}
	return false
}

// IsRoot reports whether the node is the document element
func (n *Node) IsRoot() bool {
	return n != nil && n.Parent == nil
}

// Root walks up to the document element
func (n *Node) Root() *Node {
	if n == nil {
		return nil
	}
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Closest returns the nearest ancestor (excluding n) with the given tag
func (n *Node) Closest(tag string) *Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Tag == tag {
			return p
		}
	}
	return nil
}

// TypeOfPosition returns the 1-based position of n among its parent's
// children with the same tag, and how many such children there are.
// A detached node is alone: (1, 1).
func (n *Node) TypeOfPosition() (index, total int) {
	if n == nil || n.Parent == nil {
		return 1, 1
	}
	for _, c := range n.Parent.Children {
		if c.Tag != n.Tag {
			continue
		}
		total++
		if c == n {
			index = total
		}
	}
	if index == 0 {
		// not linked into its parent's children
		return 1, 1
	}
	return index, total
}

// Walk visits n and its descendants depth first until fn returns false
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Classes returns the class attribute split on whitespace
func (n *Node) Classes() []string {
	return strings.Fields(n.AttrValue("class"))
}

// TrimmedText returns the text content with surrounding whitespace removed
func (n *Node) TrimmedText() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}
