package ai

import (
	"context"
	"fmt"
)

// Call is one model request
type Call struct {
	Prompt   string
	HasInput bool // the response must carry dataFileContent
}

// Provider sends a prompt to a model and returns its raw text reply
type Provider interface {
	Name() string
	Generate(ctx context.Context, call Call) (string, error)
}

// Factory builds a provider for an API key. Keys live in the store and can
// change between requests, so providers are built per call.
type Factory func(apiKey string) (Provider, error)

// Options configures provider construction
type Options struct {
	Model   string
	BaseURL string // overrides the provider endpoint, used by tests and proxies
}

// NewFactory returns a Factory for the named provider
func NewFactory(name string, opts Options) (Factory, error) {
	switch name {
	case "gemini", "google", "":
		return func(key string) (Provider, error) { return NewGeminiProvider(key, opts) }, nil
	case "claude", "anthropic":
		return func(key string) (Provider, error) { return NewClaudeProvider(key, opts) }, nil
	case "openai", "gpt":
		return func(key string) (Provider, error) { return NewOpenAIProvider(key, opts) }, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: gemini, claude, openai)", name)
	}
}
