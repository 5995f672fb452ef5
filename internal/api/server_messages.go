package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/v0xg/pomgen/internal/capture"
	"github.com/v0xg/pomgen/internal/prompt"
)

// Message types accepted by POST /api/v1/messages
const (
	MsgGeneratePOM    = "GENERATE_POM"
	MsgGetElements    = "GET_ELEMENTS"
	MsgUpdateElements = "UPDATE_ELEMENTS"
)

// elementList carries captured elements. Attribute maps keep their key order
// through the element's own JSON codec, so the schema is kept open.
type elementList []capture.Element

func (elementList) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type: huma.TypeArray,
		Items: &huma.Schema{
			Type:     huma.TypeObject,
			Required: []string{"name", "selector"},
			Properties: map[string]*huma.Schema{
				"name":     {Type: huma.TypeString},
				"selector": {Type: huma.TypeString},
			},
		},
	}
}

type messagePayload struct {
	URL              string      `json:"url,omitempty" doc:"Page URL the collection belongs to"`
	Elements         elementList `json:"elements,omitempty" doc:"Captured elements"`
	Language         string      `json:"language,omitempty" doc:"Java, JavaScript or TypeScript"`
	PageName         string      `json:"pageName,omitempty" doc:"Page object base name"`
	CustomGuidelines string      `json:"customGuidelines,omitempty" doc:"Replaces the language template"`
	CustomPrompt     string      `json:"customPrompt,omitempty" doc:"Additional requirements"`
}

type elementsBody struct {
	URL      string      `json:"url"`
	Elements elementList `json:"elements"`
}

type okBody struct {
	OK bool `json:"ok"`
}

func registerMessageHandlers(api huma.API, s *Server) {
	type messageOutput struct {
		Body any
	}

	huma.Register(api, huma.Operation{OperationID: "post-message", Method: http.MethodPost, Path: "/api/v1/messages", Summary: "Handle an extension message", Tags: []string{"Messages"}},
		func(ctx context.Context, input *struct {
			Body struct {
				Type    string         `json:"type" enum:"GENERATE_POM,GET_ELEMENTS,UPDATE_ELEMENTS" doc:"Message type"`
				Payload messagePayload `json:"payload"`
			}
		}) (*messageOutput, error) {
			p := input.Body.Payload
			switch input.Body.Type {
			case MsgGeneratePOM:
				resp, err := s.generate(ctx, p)
				if err != nil {
					return nil, err
				}
				return &messageOutput{Body: resp}, nil

			case MsgGetElements:
				if strings.TrimSpace(p.URL) == "" {
					return nil, huma.Error400BadRequest("payload.url is required")
				}
				els, err := s.repo.Elements(ctx, p.URL)
				if err != nil {
					return nil, mapErr(err)
				}
				return &messageOutput{Body: elementsBody{URL: p.URL, Elements: els}}, nil

			case MsgUpdateElements:
				if strings.TrimSpace(p.URL) == "" {
					return nil, huma.Error400BadRequest("payload.url is required")
				}
				if err := s.repo.SaveElements(ctx, p.URL, p.Elements); err != nil {
					return nil, mapErr(err)
				}
				return &messageOutput{Body: okBody{OK: true}}, nil
			}
			return nil, huma.Error400BadRequest("unknown message type " + input.Body.Type)
		})

	type generateOutput struct {
		Body any
	}

	huma.Register(api, huma.Operation{OperationID: "generate", Method: http.MethodPost, Path: "/api/v1/generate", Summary: "Generate a page object", Description: "Uses the given elements, or the stored collection for url when none are given.", Tags: []string{"Generate"}},
		func(ctx context.Context, input *struct {
			Body messagePayload
		}) (*generateOutput, error) {
			p := input.Body
			if len(p.Elements) == 0 && p.URL != "" {
				els, err := s.repo.Elements(ctx, p.URL)
				if err != nil {
					return nil, mapErr(err)
				}
				p.Elements = els
			}
			resp, err := s.generate(ctx, p)
			if err != nil {
				return nil, err
			}
			return &generateOutput{Body: resp}, nil
		})
}

func (s *Server) generate(ctx context.Context, p messagePayload) (any, error) {
	lang, err := prompt.ParseLanguage(p.Language)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	pageName := strings.TrimSpace(p.PageName)
	if pageName == "" && p.URL != "" {
		pageName = prompt.PageNameFromURL(p.URL)
	}

	resp, err := s.gen.Generate(ctx, prompt.Request{
		Elements:         p.Elements,
		Language:         lang,
		PageName:         pageName,
		CustomGuidelines: p.CustomGuidelines,
		CustomPrompt:     p.CustomPrompt,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return resp, nil
}
