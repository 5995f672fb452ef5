package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/v0xg/pomgen/internal/capture"
	"github.com/v0xg/pomgen/internal/inputstate"
	"github.com/v0xg/pomgen/internal/prompt"
	"github.com/v0xg/pomgen/internal/store"
)

type stubSettings map[string]string

func (s stubSettings) Setting(_ context.Context, key string) (string, error) {
	return s[key], nil
}

type stubProvider struct {
	reply string
	err   error
	calls []Call
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(_ context.Context, call Call) (string, error) {
	p.calls = append(p.calls, call)
	return p.reply, p.err
}

func stubFactory(p *stubProvider) Factory {
	return func(string) (Provider, error) { return p, nil }
}

var loginElements = []capture.Element{
	{Name: "email", Selector: "input#email", TagName: "input", Input: &inputstate.Meta{Type: "email", Value: inputstate.String("")}},
	{Name: "submit", Selector: "button#submit", TagName: "button"},
}

func TestEmptyElementsShortCircuits(t *testing.T) {
	p := &stubProvider{}
	g := NewGenerator(stubSettings{}, stubFactory(p))

	resp, err := g.Generate(context.Background(), prompt.Request{Language: prompt.Java})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Code != NoElementsMessage {
		t.Fatalf("expected placeholder, got %q", resp.Code)
	}
	if len(p.calls) != 0 {
		t.Fatalf("expected no model call, got %d", len(p.calls))
	}
}

func TestMissingAPIKeyIsPrecondition(t *testing.T) {
	p := &stubProvider{}
	g := NewGenerator(stubSettings{}, stubFactory(p))

	_, err := g.Generate(context.Background(), prompt.Request{Elements: loginElements})
	if CodeOf(err) != CodePrecondition {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if len(p.calls) != 0 {
		t.Fatalf("expected no model call")
	}
}

func TestTransportFailureIsWrapped(t *testing.T) {
	p := &stubProvider{err: errors.New("quota exceeded")}
	g := NewGenerator(stubSettings{store.KeyAPIKey: "k"}, stubFactory(p))

	_, err := g.Generate(context.Background(), prompt.Request{Elements: loginElements})
	if CodeOf(err) != CodeTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !strings.Contains(err.Error(), transportMessage) || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected generic and upstream message, got %q", err)
	}
	if len(p.calls) != 1 {
		t.Fatalf("expected exactly one attempt, got %d", len(p.calls))
	}
}

func TestGenerateReconcilesAndReportsLanguages(t *testing.T) {
	p := &stubProvider{reply: "```json\n" + `{"pomCode":"import { Page } from '@playwright/test';\nexport class LoginPage {}","dataCode":"export interface LoginData {}","dataFileContent":"{}"}` + "\n```"}
	g := NewGenerator(stubSettings{store.KeyAPIKey: "k", store.KeyCustomGuidelines: "Prefer getByTestId."}, stubFactory(p))

	resp, err := g.Generate(context.Background(), prompt.Request{
		Elements:     loginElements,
		Language:     prompt.Java,
		PageName:     "Login",
		CustomPrompt: "convert to typescript",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if resp.RequestedLanguage != prompt.Java || resp.EffectiveLanguage != prompt.TypeScript {
		t.Fatalf("expected Java -> TypeScript, got %s -> %s", resp.RequestedLanguage, resp.EffectiveLanguage)
	}
	if resp.POMFileName != "LoginPage.ts" || resp.DataFileName != "LoginData.ts" {
		t.Fatalf("unexpected file names %s, %s", resp.POMFileName, resp.DataFileName)
	}
	if resp.Provider != "stub" {
		t.Fatalf("expected provider name, got %q", resp.Provider)
	}

	call := p.calls[0]
	if !call.HasInput {
		t.Fatalf("expected input flag for elements with input metadata")
	}
	if !strings.Contains(call.Prompt, "Prefer getByTestId.") {
		t.Fatalf("expected stored guidelines in prompt")
	}
	if !strings.Contains(call.Prompt, "class in TypeScript") {
		t.Fatalf("expected overridden language in prompt")
	}
}

func TestGeminiProviderOverHTTP(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotFound)
			return
		}
		b, _ := io.ReadAll(r.Body)
		body = string(b)

		if r.Header.Get("x-goog-api-key") != "good-key" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			io.WriteString(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
			return
		}

		reply := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": `{"pomCode":"WebDriver d;","dataCode":"","dataFileContent":"{}"}`}},
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reply)
	}))
	defer srv.Close()

	factory, err := NewFactory("gemini", Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}

	g := NewGenerator(stubSettings{store.KeyAPIKey: "good-key"}, factory)
	resp, err := g.Generate(context.Background(), prompt.Request{Elements: loginElements, PageName: "Login"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.POMCode != "WebDriver d;" || resp.POMFileName != "LoginPage.java" {
		t.Fatalf("unexpected result %+v", resp.Result)
	}
	if !strings.Contains(body, "application/json") || !strings.Contains(body, "dataFileContent") {
		t.Fatalf("expected structured output config in request, got %s", body)
	}

	g = NewGenerator(stubSettings{store.KeyAPIKey: "bad-key"}, factory)
	_, err = g.Generate(context.Background(), prompt.Request{Elements: loginElements})
	if CodeOf(err) != CodeTransport || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("expected transport error with upstream message, got %v", err)
	}
}

func TestOpenAIProviderOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotFound)
			return
		}
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		format, _ := req["response_format"].(map[string]any)
		if format["type"] != "json_object" {
			http.Error(w, "expected json_object format", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"pomCode\":\"module.exports = {};\",\"dataCode\":\"\"}"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	factory, _ := NewFactory("openai", Options{BaseURL: srv.URL + "/v1"})
	g := NewGenerator(stubSettings{store.KeyAPIKey: "k"}, factory)

	resp, err := g.Generate(context.Background(), prompt.Request{Elements: loginElements[1:], PageName: "Cart", Language: prompt.JavaScript})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.POMFileName != "CartPage.js" || resp.Provider != "openai" {
		t.Fatalf("unexpected result %+v", resp)
	}
}

func TestClaudeProviderOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-20250514",`+
			`"content":[{"type":"text","text":"{\"pomCode\":\"public class A { WebDriver d; }\",\"dataCode\":\"\"}"}],`+
			`"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":10}}`)
	}))
	defer srv.Close()

	factory, _ := NewFactory("claude", Options{BaseURL: srv.URL})
	g := NewGenerator(stubSettings{store.KeyAPIKey: "k"}, factory)

	resp, err := g.Generate(context.Background(), prompt.Request{Elements: loginElements[1:], PageName: "Home"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.POMCode != "public class A { WebDriver d; }" || resp.POMFileName != "HomePage.java" {
		t.Fatalf("unexpected result %+v", resp.Result)
	}
}

func TestUnknownProvider(t *testing.T) {
	if _, err := NewFactory("llama", Options{}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
