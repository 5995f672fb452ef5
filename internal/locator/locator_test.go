package locator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/v0xg/pomgen/internal/dom"
)

const page = `<html><body>
<div id="app">
  <section>
    <button class="primary">Save</button>
    <button>Cancel</button>
    <span><button>Deep</button></span>
  </section>
</div>
<ul><li>a</li><li>b</li><li>c</li></ul>
<div><p>lonely</p></div>
<span id="1st">digit id</span>
</body></html>`

func mustParse(t *testing.T, s string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestSelectorStopsAtID(t *testing.T) {
	doc := mustParse(t, page)
	deep, _ := doc.QueryOne("span > button")

	got := Selector(deep)
	want := "div#app > section > span > button"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	app := doc.ByID("app")
	if got := Selector(app); got != "div#app" {
		t.Fatalf("expected element's own id to end the path, got %q", got)
	}
}

func TestSelectorNthOfTypeInDocumentOrder(t *testing.T) {
	doc := mustParse(t, page)
	items, _ := doc.Query("li")

	seen := map[string]bool{}
	for i, li := range items {
		sel := Selector(li)
		suffix := fmt.Sprintf("li:nth-of-type(%d)", i+1)
		if !strings.HasSuffix(sel, suffix) {
			t.Fatalf("item %d: expected suffix %q, got %q", i, suffix, sel)
		}
		if seen[sel] {
			t.Fatalf("duplicate selector %q", sel)
		}
		seen[sel] = true

		ok, err := Verify(doc, sel, li)
		if err != nil || !ok {
			t.Fatalf("selector %q does not resolve back to item %d (%v)", sel, i, err)
		}
	}
}

func TestSelectorRoundTripsForEveryElement(t *testing.T) {
	doc := mustParse(t, page)
	doc.Root.Walk(func(n *dom.Node) bool {
		sel := Selector(n)
		ok, err := Verify(doc, sel, n)
		if err != nil || !ok {
			t.Fatalf("selector %q for <%s> does not round-trip (%v)", sel, n.Tag, err)
		}
		return true
	})
}

func TestSelectorEscapesLeadingDigitID(t *testing.T) {
	doc := mustParse(t, page)
	el := doc.ByID("1st")
	sel := Selector(el)
	if !strings.HasPrefix(sel, "span#") {
		t.Fatalf("expected tag#id form, got %q", sel)
	}
	ok, err := Verify(doc, sel, el)
	if err != nil || !ok {
		t.Fatalf("escaped selector %q does not resolve (%v)", sel, err)
	}
}

func TestSelectorWithSlashInIDStaysCSS(t *testing.T) {
	doc := mustParse(t, `<html><body><div><button id="tabs/settings">Settings</button></div></body></html>`)
	el := doc.ByID("tabs/settings")
	sel := Selector(el)
	if sel != `button#tabs\/settings` {
		t.Fatalf("expected button#tabs\\/settings, got %q", sel)
	}
	if IsXPath(sel) {
		t.Fatalf("expected %q to be treated as CSS", sel)
	}
	ok, err := Verify(doc, sel, el)
	if err != nil || !ok {
		t.Fatalf("selector %q does not resolve (%v)", sel, err)
	}
}

func TestXPath(t *testing.T) {
	doc := mustParse(t, page)

	cancel, _ := doc.QueryOne("section > button:nth-of-type(2)")
	if got := XPath(cancel); got != `//*[@id="app"]/section[1]/button[2]` {
		t.Fatalf("unexpected xpath %q", got)
	}

	p, _ := doc.QueryOne("p")
	got := XPath(p)
	if got != "html/body[1]/div[2]/p[1]" {
		t.Fatalf("unexpected xpath %q", got)
	}
	ok, err := Verify(doc, got, p)
	if err != nil || !ok {
		t.Fatalf("xpath %q does not resolve (%v)", got, err)
	}

	if got := XPath(doc.Root); got != "html" {
		t.Fatalf("expected root tag, got %q", got)
	}
}

func TestNilElement(t *testing.T) {
	if Selector(nil) != "" || XPath(nil) != "" || Locate(nil) != "" {
		t.Fatalf("expected empty locators for nil element")
	}
}

func TestDetachedNode(t *testing.T) {
	n := &dom.Node{Tag: "custom-widget"}
	if got := Locate(n); got != "custom-widget" {
		t.Fatalf("expected bare tag for detached node, got %q", got)
	}
}

func TestIsXPath(t *testing.T) {
	cases := map[string]bool{
		`//*[@id="x"]/a[1]`:          true,
		"html/body[1]/div[2]":        true,
		"html > body > div":          false,
		"div#app":                    false,
		"div#app > a[href=\"/x/y\"]": false,
		`button#tabs\/settings`:      false,
		`a[href="/x"]`:               false,
		"html/body[1]/h1[1]":         true,
	}
	for in, want := range cases {
		if got := IsXPath(in); got != want {
			t.Errorf("IsXPath(%q): expected %v, got %v", in, want, got)
		}
	}
}
