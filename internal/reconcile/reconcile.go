// Package reconcile recovers generated code from a model response that may be
// fenced, wrapped in chatter, escaped twice or squashed onto one line.
package reconcile

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/v0xg/pomgen/internal/prompt"
)

// Result is the recovered generation output. Code is set only when the
// response could not be parsed, and then holds the cleaned raw text.
type Result struct {
	POMCode         string `json:"pomCode,omitempty"`
	DataCode        string `json:"dataCode,omitempty"`
	POMFileName     string `json:"pomFileName,omitempty"`
	DataFileName    string `json:"dataFileName,omitempty"`
	DataFileContent string `json:"dataFileContent,omitempty"`
	Code            string `json:"code,omitempty"`
}

// Degraded reports whether the response fell back to a raw blob
func (r Result) Degraded() bool {
	return r.Code != "" && r.POMCode == ""
}

type payload struct {
	POMCode         *string `json:"pomCode"`
	DataCode        *string `json:"dataCode"`
	POMFileName     string  `json:"pomFileName"`
	DataFileName    string  `json:"dataFileName"`
	DataFileContent string  `json:"dataFileContent"`
}

// minifiedLen is the length above which single-line code is reformatted
const minifiedLen = 100

var fenceRe = regexp.MustCompile("```[A-Za-z0-9_+-]*[ \t]*\r?\n?")

// StripFences removes Markdown code fence markers, with or without a
// language tag, and trims the result.
func StripFences(s string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(s, ""))
}

// Reconcile turns a raw model response into a Result. It never fails: text
// that does not parse as the expected object comes back under Code.
func Reconcile(raw, pageName string) Result {
	clean := StripFences(raw)

	p, ok := parse(clean)
	if !ok {
		return Result{Code: clean}
	}

	res := Result{
		POMCode:         Normalize(*p.POMCode),
		POMFileName:     strings.TrimSpace(p.POMFileName),
		DataFileName:    strings.TrimSpace(p.DataFileName),
		DataFileContent: strings.TrimSpace(unescape(p.DataFileContent)),
	}
	if p.DataCode != nil {
		res.DataCode = Normalize(*p.DataCode)
	}

	if pageName == "" {
		pageName = prompt.DefaultPageName
	}
	ext := Ext(res.POMCode)
	if res.POMFileName == "" {
		res.POMFileName = pageName + "Page." + ext
	}
	if res.DataFileName == "" && res.DataCode != "" {
		res.DataFileName = pageName + "Data." + ext
	}
	return res
}

// parse tries the whole text first, then the first balanced object in it
func parse(s string) (payload, bool) {
	var p payload
	if err := json.Unmarshal([]byte(s), &p); err == nil && p.POMCode != nil {
		return p, true
	}

	obj, ok := extractObject(s)
	if !ok {
		return payload{}, false
	}
	p = payload{}
	if err := json.Unmarshal([]byte(obj), &p); err != nil || p.POMCode == nil {
		return payload{}, false
	}
	return p, true
}

// extractObject finds the first top-level {...} in s, skipping braces inside
// JSON strings
func extractObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// Normalize cleans one code string: fences, leftover escape sequences and
// single-line output.
func Normalize(code string) string {
	code = strings.TrimSpace(code)
	if strings.HasPrefix(code, "```") {
		code = StripFences(code)
	}
	code = unescape(code)
	if !strings.Contains(code, "\n") && len(code) > minifiedLen {
		code = Reformat(code)
	}
	return code
}

// unescape converts literal \r\n, \n, \t, \" and \\ sequences left by a
// model that escaped its code twice. Code that already has real line breaks
// is left alone so escapes inside its string literals survive.
func unescape(s string) string {
	if strings.Contains(s, "\n") || !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 'r':
			if strings.HasPrefix(s[i:], `\r\n`) {
				b.WriteByte('\n')
				i += 3
				continue
			}
			b.WriteByte(s[i])
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case '"':
			b.WriteByte('"')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
