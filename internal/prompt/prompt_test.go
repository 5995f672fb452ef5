package prompt

import (
	"strings"
	"testing"

	"github.com/v0xg/pomgen/internal/capture"
	"github.com/v0xg/pomgen/internal/inputstate"
)

func TestDetectOverride(t *testing.T) {
	tests := []struct {
		prompt string
		want   Language
		ok     bool
	}{
		{"please convert to typescript", TypeScript, true},
		{"Rewrite in JavaScript and add waits", JavaScript, true},
		{"switch to java", Java, true},
		{"use javascript", JavaScript, true},
		{"typescript: add a logout method", TypeScript, true},
		{"Java please", Java, true},
		{"add a logout method", "", false},
		{"mention javascript somewhere", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			got, ok := DetectOverride(tt.prompt)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("expected %q/%v, got %q/%v", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestParseLanguage(t *testing.T) {
	for in, want := range map[string]Language{"java": Java, "TS": TypeScript, "JavaScript": JavaScript, "": Java} {
		got, err := ParseLanguage(in)
		if err != nil || got != want {
			t.Errorf("%q: expected %s, got %s (%v)", in, want, got, err)
		}
	}
	if _, err := ParseLanguage("cobol"); err == nil {
		t.Errorf("expected error for unknown language")
	}
}

func sampleElements() []capture.Element {
	return []capture.Element{
		{Name: "loginButton", Selector: "button#login", TagName: "button", Attributes: capture.Attributes{{Name: "id", Value: "login"}}, TextContent: "Log in"},
		{Name: "email", Selector: "html > body > form > input", TagName: "input", Input: &inputstate.Meta{Type: "email", Value: inputstate.String("me@x.test"), Placeholder: "Email"}},
	}
}

func TestBuild(t *testing.T) {
	p, err := Build(Request{Elements: sampleElements(), Language: Java, PageName: "Login"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, want := range []string{
		"Page Object Model (POM) class in Java",
		"**Page Name:** Login",
		`"selector": "button#login"`,
		`"placeholder": "Email"`,
		"`LoginPage`",
		"`LoginData`",
		"@FindBy",
		"checkbox, radio -> boolean",
		"one statement per line",
		`"dataFileContent": REQUIRED`,
		`LoginPage.java`,
	} {
		if !strings.Contains(p, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
	if strings.Contains(p, "Additional Requirements") {
		t.Errorf("expected no additional requirements section")
	}
}

func TestBuildOverrideAndGuidelines(t *testing.T) {
	req := Request{
		Elements:         sampleElements()[:1],
		Language:         Java,
		PageName:         "Login",
		CustomGuidelines: "Use Selenide.",
		CustomPrompt:     "convert to typescript",
	}
	if got := req.EffectiveLanguage(); got != TypeScript {
		t.Fatalf("expected TypeScript, got %s", got)
	}

	p, err := Build(req)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(p, "class in TypeScript") || !strings.Contains(p, "**Instructions for TypeScript:**\nUse Selenide.") {
		t.Fatalf("expected TypeScript prompt with custom guidelines:\n%s", p)
	}
	if strings.Contains(p, "@playwright/test") {
		t.Fatalf("expected guidelines to replace the template")
	}
	if !strings.Contains(p, "**Additional Requirements:**\nconvert to typescript") {
		t.Fatalf("expected custom prompt section")
	}
	if !strings.Contains(p, `"dataFileContent": optional`) {
		t.Fatalf("expected optional data file without inputs")
	}
}

func TestResponseFields(t *testing.T) {
	_, req := ResponseFields(false)
	if len(req) != 2 {
		t.Fatalf("expected 2 required fields, got %v", req)
	}
	all, req := ResponseFields(true)
	if len(all) != 5 || req[len(req)-1] != FieldDataFileContent {
		t.Fatalf("expected dataFileContent required, got %v", req)
	}
}

func TestPageNameFromURL(t *testing.T) {
	tests := map[string]string{
		"https://shop.test/account/user-profile.html": "UserProfile",
		"https://shop.test/checkout_step":             "CheckoutStep",
		"https://shop.test/login/":                    "Login",
		"https://shop.test/":                          "MyPage",
		"https://shop.test":                           "MyPage",
		"::not a url":                                 "MyPage",
	}
	for in, want := range tests {
		if got := PageNameFromURL(in); got != want {
			t.Errorf("%q: expected %s, got %s", in, want, got)
		}
	}
}
