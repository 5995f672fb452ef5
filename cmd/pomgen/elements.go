package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/v0xg/pomgen/internal/capture"
	"github.com/v0xg/pomgen/internal/store"
)

func newElementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "elements",
		Short: "List and edit captured elements",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list [url]",
		Short: "List captured elements, or the pages that have any",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				all, err := repo.All(ctx)
				if err != nil {
					return err
				}
				pages := make([]string, 0, len(all))
				for p := range all {
					pages = append(pages, p)
				}
				sort.Strings(pages)
				for _, p := range pages {
					fmt.Printf("%4d  %s\n", len(all[p]), p)
				}
				return nil
			}

			els, err := repo.Elements(ctx, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(els)
			}
			printElements(els)
			return nil
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "Print the stored JSON")

	rm := &cobra.Command{
		Use:   "rm <url> <index>",
		Short: "Remove an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			el, err := repo.Remove(cmd.Context(), args[0], idx)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Removed %s (%s)\n", el.Name, el.Selector)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <url> <index> <name>",
		Short: "Rename an element",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			if err := repo.Rename(cmd.Context(), args[0], idx, args[2]); err != nil {
				return err
			}
			fmt.Printf("✓ Renamed element %d to %s\n", idx, args[2])
			return nil
		},
	}

	setSelector := &cobra.Command{
		Use:   "set-selector <url> <index> <selector>",
		Short: "Replace an element's locator",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			if err := repo.SetSelector(cmd.Context(), args[0], idx, args[2]); err != nil {
				return err
			}
			fmt.Printf("✓ Element %d now uses %s\n", idx, args[2])
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <url>",
		Short: "Append a blank element to fill in by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			el, err := repo.AddBlank(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Added %s; set its locator with `pomgen elements set-selector`\n", el.Name)
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset <url>",
		Short: "Drop every element captured for a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := repo.Reset(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Cleared %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, rm, rename, setSelector, add, reset)
	return cmd
}

func parseIndex(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("index %q: %w", s, store.ErrInvalid)
	}
	return idx, nil
}

func printElements(els []capture.Element) {
	if len(els) == 0 {
		fmt.Println("(no elements)")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tTAG\tSELECTOR\tVALUE")
	for i, el := range els {
		value := ""
		if el.Input != nil {
			b, _ := json.Marshal(el.Input.Value)
			value = string(b)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i, el.Name, el.TagName, el.Selector, value)
	}
	w.Flush()
}
