package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/v0xg/pomgen/internal/ai"
	"github.com/v0xg/pomgen/internal/config"
	"github.com/v0xg/pomgen/internal/logging"
	"github.com/v0xg/pomgen/internal/store"
)

var (
	verbose  bool
	provider string
	model    string

	cfg  *config.Config
	kv   store.KV
	repo *store.ElementRepo
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pomgen",
		Short: "Capture page elements and generate Page Object Model code",
		Long: `pomgen records stable locators for elements you click in a live browser,
then asks a language model to write a Page Object class for them.

Example:
  pomgen capture https://myapp.com/login
  pomgen generate https://myapp.com/login --lang TypeScript -o ./pages`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if kv != nil {
				kv.Close()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed progress")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "AI provider: gemini, claude, openai (default: from env or gemini)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Specific model override")

	rootCmd.AddCommand(
		newCaptureCmd(),
		newGenerateCmd(),
		newElementsCmd(),
		newSettingsCmd(),
		newServeCmd(),
		newScanCmd(),
		newCheckCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, installs logging and opens the store
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if provider != "" {
		cfg.Provider = provider
	}
	if model != "" {
		cfg.Model = model
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Setup(cfg.LogLevel, cfg.LogFile, os.Stderr); err != nil {
		return fmt.Errorf("logger setup failed: %w", err)
	}

	if cfg.InMemory() {
		kv = store.NewMemory()
	} else {
		db, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			return err
		}
		kv = db
	}
	repo = store.NewElementRepo(kv)

	if cfg.APIKey != "" {
		// Environment key wins over a stale stored one
		if err := repo.SetSetting(cmd.Context(), store.KeyAPIKey, cfg.APIKey); err != nil {
			return fmt.Errorf("seed api key: %w", err)
		}
	}

	logVerbose("store: %s, provider: %s", cfg.DBPath, cfg.Provider)
	return nil
}

func newGenerator() (*ai.Generator, error) {
	factory, err := ai.NewFactory(cfg.Provider, ai.Options{Model: cfg.Model, BaseURL: cfg.BaseURL})
	if err != nil {
		return nil, err
	}
	return ai.NewGenerator(repo, factory), nil
}

// signalContext is canceled on Ctrl-C or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func logVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
