package api

import (
	"context"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/v0xg/pomgen/internal/capture"
)

type pageInfo struct {
	URL      string `json:"url"`
	Elements int    `json:"elements"`
}

func registerElementHandlers(api huma.API, s *Server) {
	type listPagesOutput struct {
		Body struct {
			Pages []pageInfo `json:"pages"`
		}
	}

	huma.Register(api, huma.Operation{OperationID: "list-pages", Method: http.MethodGet, Path: "/api/v1/pages", Summary: "List pages with captured elements", Tags: []string{"Elements"}},
		func(ctx context.Context, input *struct{}) (*listPagesOutput, error) {
			all, err := s.repo.All(ctx)
			if err != nil {
				return nil, mapErr(err)
			}
			out := &listPagesOutput{}
			out.Body.Pages = make([]pageInfo, 0, len(all))
			for url, els := range all {
				out.Body.Pages = append(out.Body.Pages, pageInfo{URL: url, Elements: len(els)})
			}
			sort.Slice(out.Body.Pages, func(i, j int) bool { return out.Body.Pages[i].URL < out.Body.Pages[j].URL })
			return out, nil
		})

	type urlInput struct {
		URL string `query:"url" required:"true" doc:"Page URL"`
	}

	type elementsOutput struct {
		Body elementsBody
	}

	huma.Register(api, huma.Operation{OperationID: "get-elements", Method: http.MethodGet, Path: "/api/v1/elements", Summary: "Get a page's captured elements", Tags: []string{"Elements"}},
		func(ctx context.Context, input *urlInput) (*elementsOutput, error) {
			els, err := s.repo.Elements(ctx, input.URL)
			if err != nil {
				return nil, mapErr(err)
			}
			return &elementsOutput{Body: elementsBody{URL: input.URL, Elements: els}}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "put-elements", Method: http.MethodPut, Path: "/api/v1/elements", Summary: "Replace a page's captured elements", Tags: []string{"Elements"}},
		func(ctx context.Context, input *struct {
			Body struct {
				URL      string      `json:"url" minLength:"1"`
				Elements elementList `json:"elements"`
			}
		}) (*elementsOutput, error) {
			if err := s.repo.SaveElements(ctx, input.Body.URL, input.Body.Elements); err != nil {
				return nil, mapErr(err)
			}
			els, err := s.repo.Elements(ctx, input.Body.URL)
			if err != nil {
				return nil, mapErr(err)
			}
			return &elementsOutput{Body: elementsBody{URL: input.Body.URL, Elements: els}}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "reset-elements", Method: http.MethodDelete, Path: "/api/v1/elements", Summary: "Drop a page's collection", Tags: []string{"Elements"}, DefaultStatus: http.StatusNoContent},
		func(ctx context.Context, input *urlInput) (*struct{}, error) {
			if err := s.repo.Reset(ctx, input.URL); err != nil {
				return nil, mapErr(err)
			}
			return nil, nil
		})

	type elementOutput struct {
		Body capture.Element
	}

	huma.Register(api, huma.Operation{OperationID: "add-blank-element", Method: http.MethodPost, Path: "/api/v1/elements/blank", Summary: "Append a blank element for manual editing", Tags: []string{"Elements"}, DefaultStatus: http.StatusCreated},
		func(ctx context.Context, input *urlInput) (*elementOutput, error) {
			el, err := s.repo.AddBlank(ctx, input.URL)
			if err != nil {
				return nil, mapErr(err)
			}
			return &elementOutput{Body: el}, nil
		})

	type indexInput struct {
		URL   string `query:"url" required:"true" doc:"Page URL"`
		Index int    `path:"index" minimum:"0" doc:"Position in the collection"`
	}

	huma.Register(api, huma.Operation{OperationID: "edit-element", Method: http.MethodPatch, Path: "/api/v1/elements/{index}", Summary: "Rename an element or change its selector", Tags: []string{"Elements"}},
		func(ctx context.Context, input *struct {
			indexInput
			Body struct {
				Name     *string `json:"name,omitempty" doc:"New unique name"`
				Selector *string `json:"selector,omitempty" doc:"New unique locator"`
			}
		}) (*elementsOutput, error) {
			if input.Body.Name == nil && input.Body.Selector == nil {
				return nil, huma.Error400BadRequest("nothing to change")
			}
			if input.Body.Name != nil {
				if err := s.repo.Rename(ctx, input.URL, input.Index, *input.Body.Name); err != nil {
					return nil, mapErr(err)
				}
			}
			if input.Body.Selector != nil {
				if err := s.repo.SetSelector(ctx, input.URL, input.Index, *input.Body.Selector); err != nil {
					return nil, mapErr(err)
				}
			}
			els, err := s.repo.Elements(ctx, input.URL)
			if err != nil {
				return nil, mapErr(err)
			}
			return &elementsOutput{Body: elementsBody{URL: input.URL, Elements: els}}, nil
		})

	huma.Register(api, huma.Operation{OperationID: "remove-element", Method: http.MethodDelete, Path: "/api/v1/elements/{index}", Summary: "Remove an element", Tags: []string{"Elements"}},
		func(ctx context.Context, input *indexInput) (*elementOutput, error) {
			el, err := s.repo.Remove(ctx, input.URL, input.Index)
			if err != nil {
				return nil, mapErr(err)
			}
			return &elementOutput{Body: el}, nil
		})
}
