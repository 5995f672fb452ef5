package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/v0xg/pomgen/internal/ai"
	"github.com/v0xg/pomgen/internal/api"
	"github.com/v0xg/pomgen/internal/prompt"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the capture store and generator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.BindAddr
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			stop := startServer(api.NewServer(repo, mustGenerator()), addr)
			fmt.Printf("→ API listening on http://%s (docs at /docs)\n", addr)

			<-ctx.Done()
			fmt.Printf("→ Shutting down... ")
			stop()
			fmt.Println("done")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (default: POMGEN_BIND_ADDR)")
	return cmd
}

// unavailableGenerator reports a provider setup error on every request
type unavailableGenerator struct {
	err error
}

func (g unavailableGenerator) Generate(context.Context, prompt.Request) (*ai.Response, error) {
	return nil, &ai.CodedError{Code: ai.CodePrecondition, Message: g.err.Error()}
}
