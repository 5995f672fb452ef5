package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page
type Document struct {
	Root *Node

	doc    *html.Node
	byHTML map[*html.Node]*Node
}

// Parse reads an HTML document
func Parse(r io.Reader) (*Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	d := &Document{doc: doc, byHTML: make(map[*html.Node]*Node)}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			d.Root = d.convert(c, nil)
			break
		}
	}
	if d.Root == nil {
		return nil, fmt.Errorf("parse html: no document element")
	}
	return d, nil
}

// ParseString parses an HTML string
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) convert(h *html.Node, parent *Node) *Node {
	n := &Node{
		Tag:    strings.ToLower(h.Data),
		Parent: parent,
	}
	for _, a := range h.Attr {
		n.Attrs = append(n.Attrs, Attr{Name: a.Key, Value: a.Val})
	}
	d.byHTML[h] = n

	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			n.Children = append(n.Children, d.convert(c, n))
		}
	}
	n.Text = textContent(h)
	seedFormState(n)
	return n
}

// seedFormState fills the live form fields from markup defaults
func seedFormState(n *Node) {
	switch n.Tag {
	case "input":
		n.Value = n.AttrValue("value")
		n.Checked = n.HasAttr("checked")
	case "textarea":
		n.Value = n.Text
	case "select":
		n.Walk(func(c *Node) bool {
			if c.Tag == "option" {
				v, ok := c.Attr("value")
				if !ok {
					v = c.TrimmedText()
				}
				n.Options = append(n.Options, Option{Value: v, Selected: c.HasAttr("selected")})
			}
			return true
		})
	}
}

func textContent(h *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(h)
	return b.String()
}

// Query returns every element matching the CSS selector, in document order
func (d *Document) Query(selector string) ([]*Node, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	var out []*Node
	goquery.NewDocumentFromNode(d.doc).FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
		if n, ok := d.byHTML[s.Get(0)]; ok {
			out = append(out, n)
		}
	})
	return out, nil
}

// QueryOne returns the first element matching the selector, or nil
func (d *Document) QueryOne(selector string) (*Node, error) {
	nodes, err := d.Query(selector)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return nodes[0], nil
}

// ByID returns the first element with the given id
func (d *Document) ByID(id string) *Node {
	var found *Node
	d.Root.Walk(func(n *Node) bool {
		if n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}
