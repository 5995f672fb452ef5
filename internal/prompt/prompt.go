// Package prompt builds the code generation request sent to the model.
package prompt

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/v0xg/pomgen/internal/capture"
)

// Language is a target language for generated code
type Language string

const (
	Java       Language = "Java"
	JavaScript Language = "JavaScript"
	TypeScript Language = "TypeScript"
)

// Languages lists every supported target
var Languages = []Language{Java, JavaScript, TypeScript}

// ParseLanguage accepts a language name or common short form
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "java", "":
		return Java, nil
	case "javascript", "js":
		return JavaScript, nil
	case "typescript", "ts":
		return TypeScript, nil
	}
	return "", fmt.Errorf("unknown language %q (want Java, JavaScript or TypeScript)", s)
}

// Ext is the source file extension for the language
func (l Language) Ext() string {
	switch l {
	case JavaScript:
		return "js"
	case TypeScript:
		return "ts"
	default:
		return "java"
	}
}

var overridePatterns = []struct {
	re   *regexp.Regexp
	lang Language
}{
	{regexp.MustCompile(`(?i)(?:convert|change|rewrite|generate|make|use|switch)\s+(?:to|in|as|using)?\s*typescript`), TypeScript},
	{regexp.MustCompile(`(?i)(?:convert|change|rewrite|generate|make|use|switch)\s+(?:to|in|as|using)?\s*javascript`), JavaScript},
	{regexp.MustCompile(`(?i)(?:convert|change|rewrite|generate|make|use|switch)\s+(?:to|in|as|using)?\s*java\b`), Java},
	{regexp.MustCompile(`(?i)^typescript[\s:]`), TypeScript},
	{regexp.MustCompile(`(?i)^javascript[\s:]`), JavaScript},
	{regexp.MustCompile(`(?i)^java[\s:]`), Java},
}

// DetectOverride finds an explicit language switch in a custom prompt, such
// as "convert to typescript" or a leading "typescript:".
func DetectOverride(customPrompt string) (Language, bool) {
	if strings.TrimSpace(customPrompt) == "" {
		return "", false
	}
	for _, p := range overridePatterns {
		if p.re.MatchString(customPrompt) {
			return p.lang, true
		}
	}
	return "", false
}

// Request is one generation request
type Request struct {
	Elements         []capture.Element `json:"elements"`
	Language         Language          `json:"language"`
	PageName         string            `json:"pageName"`
	CustomGuidelines string            `json:"customGuidelines,omitempty"`
	CustomPrompt     string            `json:"customPrompt,omitempty"`
}

// EffectiveLanguage is the language the code is generated in: an override
// found in the custom prompt, else the requested language.
func (r Request) EffectiveLanguage() Language {
	if l, ok := DetectOverride(r.CustomPrompt); ok {
		return l
	}
	if r.Language == "" {
		return Java
	}
	return r.Language
}

// HasInput reports whether any element carries input metadata
func HasInput(elements []capture.Element) bool {
	for _, e := range elements {
		if e.Input != nil {
			return true
		}
	}
	return false
}

// Build renders the full prompt for a request
func Build(r Request) (string, error) {
	lang := r.EffectiveLanguage()
	pageName := r.PageName
	if pageName == "" {
		pageName = DefaultPageName
	}

	elements := r.Elements
	if elements == nil {
		elements = []capture.Element{}
	}
	elementsJSON, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode elements: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, preamble, lang, pageName, elementsJSON)

	fmt.Fprintf(&b, "\n**Instructions for %s:**\n", lang)
	if g := strings.TrimSpace(r.CustomGuidelines); g != "" {
		b.WriteString(g)
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, instructions(lang)+"\n", pageName)
	}

	b.WriteString(dataModelSection)
	b.WriteString(styleSection)

	if p := strings.TrimSpace(r.CustomPrompt); p != "" {
		fmt.Fprintf(&b, additionalSection, p)
	}

	dataFile := dataFileOptional
	if HasInput(elements) {
		dataFile = dataFileRequired
	}
	fmt.Fprintf(&b, outputSection, pageName, lang.Ext(), dataFile)

	return b.String(), nil
}

func instructions(l Language) string {
	switch l {
	case JavaScript:
		return javaScriptInstructions
	case TypeScript:
		return typeScriptInstructions
	default:
		return javaInstructions
	}
}

// Response field names the model is asked to fill
const (
	FieldPOMCode         = "pomCode"
	FieldDataCode        = "dataCode"
	FieldPOMFileName     = "pomFileName"
	FieldDataFileName    = "dataFileName"
	FieldDataFileContent = "dataFileContent"
)

// ResponseFields returns every response field and the required subset
func ResponseFields(hasInput bool) (all, required []string) {
	all = []string{FieldPOMCode, FieldDataCode, FieldPOMFileName, FieldDataFileName, FieldDataFileContent}
	required = []string{FieldPOMCode, FieldDataCode}
	if hasInput {
		required = append(required, FieldDataFileContent)
	}
	return all, required
}

// DefaultPageName is used when nothing better can be derived
const DefaultPageName = "MyPage"

// PageNameFromURL derives a class-name stem from the last path segment of a
// page URL: "https://x.test/user-profile.html" becomes "UserProfile".
func PageNameFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPageName
	}
	seg := path.Base(strings.TrimRight(u.Path, "/"))
	if seg == "." || seg == "/" || seg == "" {
		return DefaultPageName
	}
	if i := strings.Index(seg, "."); i >= 0 {
		seg = seg[:i]
	}

	var b strings.Builder
	for _, part := range strings.FieldsFunc(seg, func(r rune) bool { return r == '-' || r == '_' }) {
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	if b.Len() == 0 {
		return DefaultPageName
	}
	return b.String()
}
