// Package naming derives camelCase identifiers for captured elements.
package naming

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/v0xg/pomgen/internal/dom"
)

// maxTextLen bounds how much visible text feeds a name
const maxTextLen = 30

// source is one row of the naming decision table
type source struct {
	name    string
	applies func(*dom.Node) bool
	extract func(*dom.Node) string
}

func anyTag(*dom.Node) bool { return true }

func tags(names ...string) func(*dom.Node) bool {
	return func(n *dom.Node) bool { return n.Is(names...) }
}

func attr(name string) func(*dom.Node) string {
	return func(n *dom.Node) string { return strings.TrimSpace(n.AttrValue(name)) }
}

// sources is evaluated top to bottom; the first non-empty result wins
var sources = []source{
	{name: "name", applies: anyTag, extract: attr("name")},
	{name: "id", applies: anyTag, extract: attr("id")},
	{name: "placeholder", applies: anyTag, extract: attr("placeholder")},
	{name: "aria-label", applies: anyTag, extract: attr("aria-label")},
	{name: "value", applies: tags("button", "input"), extract: attr("value")},
	{name: "text", applies: tags("button", "a", "label"), extract: func(n *dom.Node) string {
		return truncate(n.TrimmedText(), maxTextLen)
	}},
	{name: "alt", applies: tags("img"), extract: attr("alt")},
	{name: "type", applies: tags("input"), extract: func(n *dom.Node) string {
		t := strings.TrimSpace(n.AttrValue("type"))
		if t == "" {
			t = "text"
		}
		return t + " Input"
	}},
}

// tagPrefixes names elements nothing else could name
var tagPrefixes = map[string]string{
	"a":        "link",
	"button":   "button",
	"div":      "container",
	"span":     "text",
	"p":        "paragraph",
	"img":      "image",
	"input":    "input",
	"select":   "dropdown",
	"textarea": "textArea",
	"label":    "label",
	"form":     "form",
	"ul":       "list",
	"ol":       "list",
	"li":       "listItem",
	"table":    "table",
	"tr":       "tableRow",
	"td":       "tableCell",
	"th":       "tableHeader",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"nav":      "navigation",
	"header":   "header",
	"footer":   "footer",
	"section":  "section",
	"svg":      "icon",
}

// Raw returns the source value that names the element and which rule
// produced it. The tag prefix table is the final fallback.
func Raw(el *dom.Node) (value, rule string) {
	for _, s := range sources {
		if !s.applies(el) {
			continue
		}
		if v := s.extract(el); v != "" {
			return v, s.name
		}
	}
	if p, ok := tagPrefixes[el.Tag]; ok {
		return p, "tag"
	}
	return el.Tag, "tag"
}

// Base derives the camelCase identifier before uniqueness is applied
func Base(el *dom.Node) string {
	raw, _ := Raw(el)
	name := CamelCase(raw)
	tag := CamelCase(el.Tag)
	if tag == "" {
		tag = "element"
	}
	if name == "" {
		return tag
	}
	if r, _ := utf8.DecodeRuneInString(name); !isASCIILetter(r) {
		return tag + name
	}
	return name
}

// Name derives a name for the element that is not in existing. Collisions
// get a numeric suffix starting at 2.
func Name(el *dom.Node, existing map[string]bool) string {
	return Unique(Base(el), existing)
}

// Unique appends 2, 3, ... to base until it is not in existing
func Unique(base string, existing map[string]bool) string {
	if !existing[base] {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !existing[candidate] {
			return candidate
		}
	}
}

// CamelCase replaces every non-alphanumeric rune with a space, lowercases
// the first word and upper-cases the first letter of the rest.
func CamelCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !isASCIILetter(r) && !(r >= '0' && r <= '9')
	})

	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(w[size:])
	}
	return b.String()
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
