package reconcile

import (
	"regexp"
	"strings"

	"github.com/v0xg/pomgen/internal/prompt"
)

var (
	pageImportRe  = regexp.MustCompile(`import\s*(?:type\s*)?\{[^}]*\bPage\b[^}]*\}`)
	jsKeywordRe   = regexp.MustCompile(`\bfunction\b|\bconst |\blet |\bvar `)
	tsMarkerRe    = regexp.MustCompile(`\binterface |: string\b|: number\b|Promise<`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
	typeModifiers = map[string]bool{
		"public": true, "private": true, "protected": true, "export": true,
		"default": true, "abstract": true, "final": true, "static": true,
	}
)

// Ext picks a file extension from markers in generated page object code:
// WebDriver means Java, an imported Page type means TypeScript, module.exports
// means JavaScript. Anything else falls back to DetectLanguage.
func Ext(code string) string {
	switch {
	case strings.Contains(code, "WebDriver"):
		return prompt.Java.Ext()
	case pageImportRe.MatchString(code):
		return prompt.TypeScript.Ext()
	case strings.Contains(code, "module.exports"):
		return prompt.JavaScript.Ext()
	}
	return DetectLanguage(code).Ext()
}

// DetectLanguage guesses the language of a code blob. Java is the default.
func DetectLanguage(code string) prompt.Language {
	if !jsKeywordRe.MatchString(code) {
		return prompt.Java
	}
	if tsMarkerRe.MatchString(code) {
		return prompt.TypeScript
	}
	return prompt.JavaScript
}

// DefaultsFileName names the data defaults file after its content format.
func DefaultsFileName(pageName, content string) string {
	if pageName == "" {
		pageName = prompt.DefaultPageName
	}
	ext := "json"
	switch t := strings.TrimSpace(content); {
	case strings.HasPrefix(t, "<"):
		ext = "xml"
	case t != "" && !strings.HasPrefix(t, "{") && !strings.HasPrefix(t, "["):
		if strings.Contains(t, "=") && !strings.Contains(t, ":") {
			ext = "properties"
		} else {
			ext = "yaml"
		}
	}
	return pageName + "Data." + ext
}

// Reformat breaks single-line code into lines. It is a cosmetic pass, not a
// parser: it breaks after semicolons outside parentheses, after opening
// braces, around closing braces and before class or interface declarations,
// then re-indents by brace depth. String literals are copied untouched.
func Reformat(code string) string {
	var out strings.Builder
	paren := 0
	var quote byte

	newline := func() {
		s := out.String()
		if !strings.HasSuffix(s, "\n") {
			out.Reset()
			out.WriteString(strings.TrimRight(s, " \t"))
			out.WriteByte('\n')
		}
	}

	for i := 0; i < len(code); i++ {
		c := code[i]

		if quote != 0 {
			out.WriteByte(c)
			if c == '\\' && i+1 < len(code) {
				i++
				out.WriteByte(code[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'', '`':
			quote = c
			out.WriteByte(c)
		case '(':
			paren++
			out.WriteByte(c)
		case ')':
			if paren > 0 {
				paren--
			}
			out.WriteByte(c)
		case ';':
			out.WriteByte(c)
			if paren == 0 {
				newline()
			}
		case '{':
			out.WriteByte(c)
			if !inImport(out.String()) {
				newline()
			}
		case '}':
			if inImport(out.String()) {
				out.WriteByte(c)
				continue
			}
			newline()
			out.WriteByte(c)
			if !continuesAfterBrace(code[i+1:]) {
				newline()
			}
		case ' ', '\t':
			if !strings.HasSuffix(out.String(), "\n") {
				out.WriteByte(c)
			}
		default:
			if isWordStart(code, i) {
				if w := wordAt(code, i); w == "class" || w == "interface" {
					breakBeforeDeclaration(&out)
				}
			}
			out.WriteByte(c)
		}
	}

	return indent(blankLinesRe.ReplaceAllString(out.String(), "\n\n"))
}

// inImport reports whether the current output line is an import, whose
// braces list names rather than open a block
func inImport(s string) bool {
	line := strings.TrimSpace(s[strings.LastIndex(s, "\n")+1:])
	return strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "import{")
}

// continuesAfterBrace reports whether text after a } belongs on the same line
func continuesAfterBrace(rest string) bool {
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return false
	}
	switch rest[0] {
	case ';', ',', ')', ']':
		return true
	}
	for _, kw := range []string{"else", "catch", "finally", "while"} {
		if strings.HasPrefix(rest, kw) {
			return true
		}
	}
	return false
}

// breakBeforeDeclaration moves a class or interface declaration, including
// its leading modifiers, onto a fresh line
func breakBeforeDeclaration(out *strings.Builder) {
	s := out.String()
	lineStart := strings.LastIndex(s, "\n") + 1
	line := s[lineStart:]

	words := strings.Fields(line)
	keep := len(words)
	for keep > 0 && typeModifiers[words[keep-1]] {
		keep--
	}
	if keep == 0 {
		return
	}

	head := strings.Join(words[:keep], " ")
	tail := strings.Join(words[keep:], " ")
	out.Reset()
	out.WriteString(s[:lineStart])
	out.WriteString(head)
	out.WriteByte('\n')
	if tail != "" {
		out.WriteString(tail + " ")
	}
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isWordStart(s string, i int) bool {
	return isWordByte(s[i]) && (i == 0 || !isWordByte(s[i-1]))
}

func wordAt(s string, i int) string {
	j := i
	for j < len(s) && isWordByte(s[j]) {
		j++
	}
	return s[i:j]
}

// indent re-indents lines by brace depth, four spaces per level
func indent(code string) string {
	lines := strings.Split(strings.TrimSpace(code), "\n")
	depth := 0
	for i, line := range lines {
		line = strings.TrimSpace(line)
		d := depth
		if strings.HasPrefix(line, "}") && d > 0 {
			d--
		}
		if line != "" {
			lines[i] = strings.Repeat("    ", d) + line
		} else {
			lines[i] = ""
		}
		depth += braceDelta(line)
		if depth < 0 {
			depth = 0
		}
	}
	return strings.Join(lines, "\n")
}

func braceDelta(line string) int {
	delta := 0
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta
}
