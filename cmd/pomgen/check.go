package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/v0xg/pomgen/internal/browser"
)

func newCheckCmd() *cobra.Command {
	var (
		asJSON   bool
		snapshot string
	)

	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Check stored locators against the live page",
		Long: `check opens the page in a headless browser and counts how many nodes each
stored locator matches. Locators that match nothing or more than one node
should be recaptured or edited with "pomgen elements set-selector".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			elements, err := repo.Elements(ctx, url)
			if err != nil {
				return err
			}
			if len(elements) == 0 {
				fmt.Println("(no elements)")
				return nil
			}

			fmt.Printf("→ Launching browser... ")
			b, err := browser.Launch(browser.Options{
				Width:      cfg.Width,
				Height:     cfg.Height,
				Timeout:    cfg.LoadTimeout,
				Headless:   true,
				ProfileDir: cfg.ProfileDir,
			})
			if err != nil {
				fmt.Println("failed")
				return err
			}
			defer b.Close()
			fmt.Println("done")

			fmt.Printf("→ Opening %s... ", url)
			if err := b.Open(ctx, url); err != nil {
				fmt.Println("failed")
				return err
			}
			fmt.Println("done")

			if snapshot != "" {
				html, err := b.HTML()
				if err != nil {
					return err
				}
				if err := os.WriteFile(snapshot, []byte(html), 0o644); err != nil {
					return err
				}
				fmt.Printf("✓ Saved page HTML to %s (replay with pomgen scan)\n", snapshot)
			}

			results := b.Check(elements)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			failed := 0
			for _, r := range results {
				switch r.Status {
				case browser.StatusOK:
					fmt.Printf("✓ %s  %s\n", r.Name, r.Selector)
				case browser.StatusInvalid:
					failed++
					fmt.Printf("✗ %s  %s (%s)\n", r.Name, r.Selector, r.Error)
				default:
					failed++
					fmt.Printf("✗ %s  %s (%s, %d matches)\n", r.Name, r.Selector, r.Status, r.Matches)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d locators need attention", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Also save the rendered page HTML to this file")
	return cmd
}
