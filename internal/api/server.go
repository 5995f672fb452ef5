// Package api exposes the capture store and the generator over HTTP: the
// three extension messages, REST endpoints for editing collections and
// settings, and a websocket feed of store changes.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/v0xg/pomgen/internal/ai"
	"github.com/v0xg/pomgen/internal/prompt"
	"github.com/v0xg/pomgen/internal/store"
)

// Generator produces page object code
type Generator interface {
	Generate(ctx context.Context, req prompt.Request) (*ai.Response, error)
}

// Server holds the handler dependencies
type Server struct {
	repo *store.ElementRepo
	gen  Generator
}

// NewServer builds the router
func NewServer(repo *store.ElementRepo, gen Generator) http.Handler {
	s := &Server{repo: repo, gen: gen}

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	cfg := huma.DefaultConfig("pomgen API", "1.0.0")
	api := humachi.New(router, cfg)

	router.Get("/api/v1/changes", s.changes)

	registerMessageHandlers(api, s)
	registerElementHandlers(api, s)
	registerSettingHandlers(api, s)

	return router
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}

	var coded *ai.CodedError
	if errors.As(err, &coded) {
		switch coded.Code {
		case ai.CodePrecondition:
			return huma.Error412PreconditionFailed(coded.Message)
		case ai.CodeTransport:
			return huma.Error502BadGateway(coded.Error())
		}
	}

	switch {
	case errors.Is(err, store.ErrInvalid):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, store.ErrNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, context.Canceled):
		return huma.Error503ServiceUnavailable("request canceled")
	}

	slog.Error("request failed", "error", err)
	return huma.Error500InternalServerError(err.Error())
}
