package ai

import (
	"strings"

	"github.com/v0xg/pomgen/internal/prompt"
)

const systemPrompt = `You are a test automation code generator. You turn captured page elements into Page Object Model source files.

Respond ONLY with a single JSON object matching the requested fields, no explanation or markdown.`

// jsonFieldHint is appended for providers without schema-constrained output
func jsonFieldHint(hasInput bool) string {
	_, required := prompt.ResponseFields(hasInput)
	return "\n\nRequired JSON fields: " + strings.Join(required, ", ") + "."
}
