package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/v0xg/pomgen/internal/api"
	"github.com/v0xg/pomgen/internal/browser"
	"github.com/v0xg/pomgen/internal/store"
)

func newCaptureCmd() *cobra.Command {
	var (
		serve   bool
		profile string
	)

	cmd := &cobra.Command{
		Use:   "capture <url>",
		Short: "Open a browser and record the elements you click",
		Long: `capture opens the page in a visible browser and starts capturing. Hover to
see what will be recorded, click an element to capture it, and type into
inputs to record their current values. Press Ctrl-C to finish.

With --serve the HTTP API runs alongside, so PUT /api/v1/capturing can pause
and resume capturing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			if profile == "" {
				profile = cfg.ProfileDir
			}

			fmt.Printf("→ Launching browser... ")
			b, err := browser.Launch(browser.Options{
				Width:      cfg.Width,
				Height:     cfg.Height,
				Timeout:    cfg.LoadTimeout,
				Headless:   cfg.Headless,
				ProfileDir: profile,
			})
			if err != nil {
				fmt.Println("failed")
				return err
			}
			defer b.Close()
			fmt.Println("done")

			driver := browser.NewDriver(b, repo)
			if err := driver.Attach(); err != nil {
				return err
			}

			fmt.Printf("→ Opening %s... ", url)
			if err := b.Open(ctx, url); err != nil {
				fmt.Println("failed")
				return err
			}
			fmt.Println("done")

			toggle := make(chan bool, 4)
			unsubscribe := kv.Subscribe(func(c store.Changes) {
				ch, ok := c[store.KeyCapturing]
				if !ok {
					return
				}
				var on bool
				if ch.NewValue != nil {
					if err := json.Unmarshal(ch.NewValue, &on); err != nil {
						return
					}
				}
				select {
				case toggle <- on:
				default:
				}
			})
			defer unsubscribe()

			if serve {
				stop := startServer(api.NewServer(repo, mustGenerator()), cfg.BindAddr)
				defer stop()
				fmt.Printf("→ API listening on http://%s\n", cfg.BindAddr)
			}

			if err := repo.SetCapturing(ctx, true); err != nil {
				return err
			}
			fmt.Println("→ Capturing. Click elements in the browser, Ctrl-C to finish.")

			if err := driver.Run(ctx, toggle); err != nil {
				return err
			}
			logVerbose("session: %s", driver.Session().Mode())
			if err := repo.SetCapturing(context.Background(), false); err != nil {
				slog.Warn("clear capturing flag failed", "error", err)
			}

			// The page may have navigated; report what is stored for every page
			all, err := repo.All(context.Background())
			if err != nil {
				return err
			}
			if current, err := b.URL(); err == nil {
				logVerbose("last page: %s", current)
			}
			for page, els := range all {
				fmt.Printf("✓ %s: %d elements\n", page, len(els))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&serve, "serve", false, "Run the HTTP API while capturing")
	cmd.Flags().StringVar(&profile, "profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")
	return cmd
}

// mustGenerator returns a generator. When the provider is misconfigured,
// generation requests fail with a precondition error instead.
func mustGenerator() api.Generator {
	g, err := newGenerator()
	if err != nil {
		slog.Warn("generator unavailable", "error", err)
		return unavailableGenerator{err: err}
	}
	return g
}

// startServer serves h in the background and returns a graceful stop
func startServer(h http.Handler, addr string) func() {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "addr", addr, "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("http server shutdown failed", "error", err)
		}
	}
}
