package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/v0xg/pomgen/internal/store"
)

type settingsBody struct {
	APIKeySet        bool   `json:"apiKeySet"`
	CustomGuidelines string `json:"customGuidelines"`
}

type settingsOutput struct {
	Body settingsBody
}

type capturingBody struct {
	Capturing bool `json:"capturing"`
}

func registerSettingHandlers(api huma.API, s *Server) {
	huma.Register(api, huma.Operation{OperationID: "get-settings", Method: http.MethodGet, Path: "/api/v1/settings", Summary: "Get stored settings", Description: "The API key itself is never returned.", Tags: []string{"Settings"}},
		func(ctx context.Context, input *struct{}) (*settingsOutput, error) {
			return s.settings(ctx)
		})

	huma.Register(api, huma.Operation{OperationID: "put-setting", Method: http.MethodPut, Path: "/api/v1/settings/{key}", Summary: "Store a setting; an empty value clears it", Tags: []string{"Settings"}},
		func(ctx context.Context, input *struct {
			Key  string `path:"key" enum:"apiKey,customGuidelines"`
			Body struct {
				Value string `json:"value"`
			}
		}) (*settingsOutput, error) {
			if err := s.repo.SetSetting(ctx, input.Key, input.Body.Value); err != nil {
				return nil, mapErr(err)
			}
			return s.settings(ctx)
		})

	type capturingOutput struct {
		Body capturingBody
	}

	huma.Register(api, huma.Operation{OperationID: "get-capturing", Method: http.MethodGet, Path: "/api/v1/capturing", Summary: "Get the capturing flag", Tags: []string{"Capture"}},
		func(ctx context.Context, input *struct{}) (*capturingOutput, error) {
			on, err := s.repo.Capturing(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			return &capturingOutput{Body: capturingBody{Capturing: on}}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "put-capturing", Method: http.MethodPut, Path: "/api/v1/capturing", Summary: "Start or stop capturing in attached browsers", Tags: []string{"Capture"}},
		func(ctx context.Context, input *struct {
			Body capturingBody
		}) (*capturingOutput, error) {
			if err := s.repo.SetCapturing(ctx, input.Body.Capturing); err != nil {
				return nil, mapErr(err)
			}
			return &capturingOutput{Body: input.Body}, nil
		})
}

func (s *Server) settings(ctx context.Context) (*settingsOutput, error) {
	key, err := s.repo.Setting(ctx, store.KeyAPIKey)
	if err != nil {
		return nil, mapErr(err)
	}
	guidelines, err := s.repo.Setting(ctx, store.KeyCustomGuidelines)
	if err != nil {
		return nil, mapErr(err)
	}
	return &settingsOutput{Body: settingsBody{APIKeySet: key != "", CustomGuidelines: guidelines}}, nil
}
