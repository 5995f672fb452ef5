package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/v0xg/pomgen/internal/prompt"
	"github.com/v0xg/pomgen/internal/reconcile"
	"github.com/v0xg/pomgen/internal/store"
)

// NoElementsMessage is returned in place of code when nothing was captured
const NoElementsMessage = "// No elements to generate code for"

// Settings reads stored string settings
type Settings interface {
	Setting(ctx context.Context, key string) (string, error)
}

// Response is a generation result plus the languages involved. The effective
// language differs from the requested one when the custom prompt asks for a
// conversion.
type Response struct {
	reconcile.Result
	RequestedLanguage prompt.Language `json:"requestedLanguage"`
	EffectiveLanguage prompt.Language `json:"effectiveLanguage"`
	Provider          string          `json:"provider,omitempty"`
}

// Generator runs the generation pipeline: short-circuit on empty input,
// API key precondition, prompt, one model call, reconciliation.
type Generator struct {
	settings Settings
	factory  Factory
	logger   *slog.Logger
}

// NewGenerator creates a Generator
func NewGenerator(settings Settings, factory Factory) *Generator {
	return &Generator{
		settings: settings,
		factory:  factory,
		logger:   slog.Default().With("component", "generator"),
	}
}

// Generate produces page object code for the request. It makes at most one
// model call and never retries.
func (g *Generator) Generate(ctx context.Context, req prompt.Request) (*Response, error) {
	if req.Language == "" {
		req.Language = prompt.Java
	}
	resp := &Response{
		RequestedLanguage: req.Language,
		EffectiveLanguage: req.EffectiveLanguage(),
	}

	if len(req.Elements) == 0 {
		resp.Code = NoElementsMessage
		return resp, nil
	}

	apiKey, err := g.settings.Setting(ctx, store.KeyAPIKey)
	if err != nil {
		return nil, fmt.Errorf("read api key: %w", err)
	}
	if apiKey == "" {
		return nil, preconditionError("API key not found. Set it with `pomgen settings set apiKey <key>` or GEMINI_API_KEY.")
	}

	if req.CustomGuidelines == "" {
		guidelines, err := g.settings.Setting(ctx, store.KeyCustomGuidelines)
		if err != nil {
			return nil, fmt.Errorf("read custom guidelines: %w", err)
		}
		req.CustomGuidelines = guidelines
	}
	if req.PageName == "" {
		req.PageName = prompt.DefaultPageName
	}

	text, err := prompt.Build(req)
	if err != nil {
		return nil, err
	}

	provider, err := g.factory(apiKey)
	if err != nil {
		return nil, transportError(err)
	}
	resp.Provider = provider.Name()

	start := time.Now()
	raw, err := provider.Generate(ctx, Call{Prompt: text, HasInput: prompt.HasInput(req.Elements)})
	if err != nil {
		g.logger.Error("model call failed", "provider", provider.Name(), "error", err)
		return nil, transportError(err)
	}
	g.logger.Info("model call finished",
		"provider", provider.Name(),
		"elements", len(req.Elements),
		"requested", req.Language,
		"effective", resp.EffectiveLanguage,
		"duration", time.Since(start).Round(time.Millisecond))

	resp.Result = reconcile.Reconcile(raw, req.PageName)
	if resp.Degraded() {
		g.logger.Warn("model response did not parse, returning raw text", "bytes", len(raw))
	}
	return resp, nil
}
