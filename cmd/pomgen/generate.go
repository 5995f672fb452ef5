package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/v0xg/pomgen/internal/ai"
	"github.com/v0xg/pomgen/internal/output"
	"github.com/v0xg/pomgen/internal/prompt"
)

func newGenerateCmd() *cobra.Command {
	var (
		lang       string
		pageName   string
		custom     string
		guidelines string
		outDir     string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Generate a Page Object from a page's captured elements",
		Long: `generate sends the elements captured for the page to the model and writes
the page object, its data class and a defaults file.

Example:
  pomgen generate https://myapp.com/login --lang TypeScript -o ./pages
  pomgen generate https://myapp.com/login --prompt "use getByTestId where possible"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			ctx := cmd.Context()

			if lang == "" {
				lang = string(cfg.Language)
			}
			language, err := prompt.ParseLanguage(lang)
			if err != nil {
				return err
			}
			if pageName == "" {
				pageName = prompt.PageNameFromURL(url)
			}

			elements, err := repo.Elements(ctx, url)
			if err != nil {
				return err
			}

			gen, err := newGenerator()
			if err != nil {
				return err
			}

			req := prompt.Request{
				Elements:         elements,
				Language:         language,
				PageName:         pageName,
				CustomGuidelines: guidelines,
				CustomPrompt:     custom,
			}
			if eff := req.EffectiveLanguage(); eff != language {
				fmt.Printf("→ Prompt asks for %s, overriding %s\n", eff, language)
			}

			fmt.Printf("→ Generating %sPage from %d elements via %s... ", pageName, len(elements), cfg.Provider)
			resp, err := gen.Generate(ctx, req)
			if err != nil {
				fmt.Println("failed")
				if ai.CodeOf(err) == ai.CodePrecondition {
					return fmt.Errorf("%w\nhint: pomgen settings set apiKey <key>", err)
				}
				return err
			}
			fmt.Println("done")

			if len(elements) == 0 {
				fmt.Println(resp.Code)
				return nil
			}
			if resp.Degraded() {
				fmt.Println("⚠ Model response was not structured, saving raw text")
			}

			if outDir == "" {
				printResult(resp)
				return nil
			}

			files, err := output.Write(outDir, pageName, resp.Result, output.Options{DryRun: dryRun})
			if err != nil {
				return err
			}
			for _, f := range files {
				switch f.Status {
				case output.StatusChanged:
					fmt.Printf("✓ %s (changed)\n", f.Path)
					if verbose || dryRun {
						fmt.Print(f.Diff)
					}
				case output.StatusUnchanged:
					fmt.Printf("✓ %s (unchanged)\n", f.Path)
				default:
					fmt.Printf("✓ %s\n", f.Path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Output language: Java, JavaScript, TypeScript (default: POMGEN_LANGUAGE or Java)")
	cmd.Flags().StringVarP(&pageName, "page", "p", "", "Page object base name (default: from the URL)")
	cmd.Flags().StringVar(&custom, "prompt", "", "Additional requirements for the model")
	cmd.Flags().StringVar(&guidelines, "guidelines", "", "Replace the language template (default: stored customGuidelines)")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "Write files to this directory instead of printing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be written without writing")
	return cmd
}

func printResult(resp *ai.Response) {
	if resp.Degraded() {
		fmt.Println(resp.Code)
		return
	}
	section := func(name, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		fmt.Fprintf(os.Stdout, "\n// ===== %s =====\n%s\n", name, body)
	}
	section(resp.POMFileName, resp.POMCode)
	section(resp.DataFileName, resp.DataCode)
	section("defaults", resp.DataFileContent)
}
