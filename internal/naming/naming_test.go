package naming

import (
	"testing"

	"github.com/v0xg/pomgen/internal/dom"
)

func first(t *testing.T, markup, selector string) *dom.Node {
	t.Helper()
	doc, err := dom.ParseString(markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	n, err := doc.QueryOne(selector)
	if err != nil || n == nil {
		t.Fatalf("query %q: %v (%v)", selector, n, err)
	}
	return n
}

func TestSourcePriority(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		selector string
		want     string
		rule     string
	}{
		{"name beats id", `<input name="user_name" id="uid">`, "input", "userName", "name"},
		{"id", `<div id="main-panel"></div>`, "div", "mainPanel", "id"},
		{"placeholder", `<input type="text" placeholder="Email">`, "input", "email", "placeholder"},
		{"aria label", `<div aria-label="Close dialog"></div>`, "div", "closeDialog", "aria-label"},
		{"button value", `<input type="submit" value="Sign in">`, "input", "signIn", "value"},
		{"value ignored on div", `<div value="x"></div>`, "div", "container", "tag"},
		{"anchor text", `<a href="/x">  Forgot password? </a>`, "a", "forgotPassword", "text"},
		{"long text truncated", `<button>Subscribe to the weekly newsletter digest now</button>`, "button", "subscribeToTheWeeklyNewsle", "text"},
		{"text ignored on div", `<div>hello</div>`, "div", "container", "tag"},
		{"img alt", `<img alt="Company logo">`, "img", "companyLogo", "alt"},
		{"input type", `<input type="password">`, "input", "passwordInput", "type"},
		{"input default type", `<input>`, "input", "textInput", "type"},
		{"tag table", `<select></select>`, "select", "dropdown", "tag"},
		{"unknown tag", `<custom-widget></custom-widget>`, "custom-widget", "customWidget", "tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := first(t, tt.markup, tt.selector)
			if _, rule := Raw(n); rule != tt.rule {
				t.Fatalf("expected rule %q, got %q", tt.rule, rule)
			}
			if got := Base(n); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNonLetterStartGetsTagPrefix(t *testing.T) {
	n := first(t, `<input name="2fa-code">`, "input")
	if got := Base(n); got != "input2faCode" {
		t.Fatalf("expected input2faCode, got %q", got)
	}
}

func TestSymbolsOnlyFallsBackToTag(t *testing.T) {
	n := first(t, `<button aria-label="  ">***</button>`, "button")
	if got := Base(n); got != "button" {
		t.Fatalf("expected button, got %q", got)
	}
}

func TestNameUniqueness(t *testing.T) {
	markup := `<form><input type="submit" value="Submit"><input type="submit" value="Submit"></form>`
	doc, _ := dom.ParseString(markup)
	buttons, _ := doc.Query("input")

	existing := map[string]bool{}
	var got []string
	for _, b := range buttons {
		n := Name(b, existing)
		if existing[n] {
			t.Fatalf("name %q already present", n)
		}
		existing[n] = true
		got = append(got, n)
	}
	if got[0] != "submit" || got[1] != "submit2" {
		t.Fatalf("expected [submit submit2], got %v", got)
	}

	again := Name(buttons[0], existing)
	if again != "submit3" {
		t.Fatalf("expected submit3, got %q", again)
	}
}

func TestCamelCase(t *testing.T) {
	cases := map[string]string{
		"First Name":      "firstName",
		"e-mail_address":  "eMailAddress",
		"ALREADY upper":   "alreadyUpper",
		"  ":              "",
		"Café au lait":    "cafAuLait",
		"loginButton now": "loginbuttonNow",
	}
	for in, want := range cases {
		if got := CamelCase(in); got != want {
			t.Errorf("CamelCase(%q): expected %q, got %q", in, want, got)
		}
	}
}
