// Package locator derives reproducible locator strings for captured elements.
package locator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/v0xg/pomgen/internal/dom"
)

// Selector returns a CSS path from the element up to the document element,
// segments joined with " > ". An id ends the walk early: ids are treated as
// page-unique. Siblings sharing a tag are disambiguated with :nth-of-type.
// Returns "" only for a nil element.
func Selector(el *dom.Node) string {
	if el == nil {
		return ""
	}

	var path []string
	for n := el; n != nil; n = n.Parent {
		seg := strings.ToLower(n.Tag)
		if id := n.ID(); id != "" {
			path = append(path, seg+"#"+escapeIdent(id))
			break
		}
		if idx, total := n.TypeOfPosition(); total > 1 {
			seg += ":nth-of-type(" + strconv.Itoa(idx) + ")"
		}
		path = append(path, seg)
	}

	// built leaf first
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return strings.Join(path, " > ")
}

// XPath returns a positional XPath for the element, anchored at the nearest
// ancestor with an id or at the document element.
func XPath(el *dom.Node) string {
	if el == nil {
		return ""
	}
	if id := el.ID(); id != "" {
		return `//*[@id=` + quoteXPath(id) + `]`
	}
	tag := strings.ToLower(el.Tag)
	if el.IsRoot() {
		return tag
	}
	idx, _ := el.TypeOfPosition()
	return fmt.Sprintf("%s/%s[%d]", XPath(el.Parent), tag, idx)
}

// Locate prefers the CSS path and falls back to XPath when it is empty
func Locate(el *dom.Node) string {
	if s := Selector(el); s != "" {
		return s
	}
	return XPath(el)
}

// positionalXPath is the root-anchored form XPath emits, e.g. html/body[1]/div[2]
var positionalXPath = regexp.MustCompile(`^[a-z][\w-]*(/[a-z][\w-]*\[\d+\])+$`)

// IsXPath reports whether a stored locator is an XPath rather than CSS. Only
// the shapes XPath produces count, so a CSS id containing '/' stays CSS.
func IsXPath(locator string) bool {
	return strings.HasPrefix(locator, "/") || positionalXPath.MatchString(locator)
}

// escapeIdent escapes an id for use after '#' in a CSS selector
func escapeIdent(id string) string {
	var b strings.Builder
	for i, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-', r >= 0x80:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				// leading digit must be a hex escape followed by a space
				fmt.Fprintf(&b, "\\%x ", r)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}

func quoteXPath(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	// both quote kinds present
	parts := strings.Split(s, `"`)
	for i, p := range parts {
		parts[i] = `"` + p + `"`
	}
	return "concat(" + strings.Join(parts, `, '"', `) + ")"
}
