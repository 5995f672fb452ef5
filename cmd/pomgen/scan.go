package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/v0xg/pomgen/internal/capture"
	"github.com/v0xg/pomgen/internal/dom"
	"github.com/v0xg/pomgen/internal/inputstate"
	"github.com/v0xg/pomgen/internal/locator"
	"github.com/v0xg/pomgen/internal/store"
)

func newScanCmd() *cobra.Command {
	var (
		selects []string
		fills   []string
		pageURL string
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "scan <file.html>",
		Short: "Capture elements from a saved HTML file without a browser",
		Long: `scan replays clicks on a static HTML document. Each --select picks an element
to click; each --fill types a value into a control first. The resulting
elements are printed as JSON, and stored for --url with --save.

Example:
  pomgen scan login.html --select '#submit' --fill 'input[name=email]=a@b.c'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			doc, err := dom.Parse(f)
			f.Close()
			if err != nil {
				return err
			}

			if pageURL == "" {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				pageURL = "file://" + filepath.ToSlash(abs)
			}

			target := repo
			if !save {
				target = store.NewElementRepo(store.NewMemory())
			}

			session := capture.NewSession(target, capture.NopEffects{})
			if err := session.Start(ctx); err != nil {
				return err
			}

			for _, fill := range fills {
				sel, value, ok := strings.Cut(fill, "=")
				if !ok {
					return fmt.Errorf("--fill %q: want selector=value", fill)
				}
				n, err := queryOne(doc, sel)
				if err != nil {
					return err
				}
				if !inputstate.IsInputLike(n) {
					return fmt.Errorf("--fill %q: <%s> is not a form control", fill, n.Tag)
				}
				setValue(n, value)
				for _, kind := range []capture.EventKind{capture.EventFocusIn, capture.EventInput, capture.EventBlur} {
					if _, err := session.Dispatch(ctx, capture.Event{Kind: kind, URL: pageURL, Target: n}); err != nil {
						return err
					}
				}
			}

			for _, sel := range selects {
				n, err := queryOne(doc, sel)
				if err != nil {
					return err
				}
				if _, err := session.Dispatch(ctx, capture.Event{Kind: capture.EventClick, URL: pageURL, Target: n}); err != nil {
					return err
				}
			}

			if err := session.Stop(ctx); err != nil {
				return err
			}

			elements, err := target.Elements(ctx, pageURL)
			if err != nil {
				return err
			}
			if err := verifyAll(doc, elements); err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(elements)
		},
	}

	cmd.Flags().StringArrayVarP(&selects, "select", "s", nil, "CSS selector of an element to click (repeatable)")
	cmd.Flags().StringArrayVar(&fills, "fill", nil, "selector=value to type into a control (repeatable)")
	cmd.Flags().StringVar(&pageURL, "url", "", "Page URL to store the elements under (default: file URL)")
	cmd.Flags().BoolVar(&save, "save", false, "Store the elements in the database")
	return cmd
}

func queryOne(doc *dom.Document, sel string) (*dom.Node, error) {
	n, err := doc.QueryOne(sel)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("no element matches %s", sel)
	}
	return n, nil
}

// setValue changes a parsed control the way typing or clicking would
func setValue(n *dom.Node, value string) {
	switch {
	case n.Tag == "select":
		for i := range n.Options {
			n.Options[i].Selected = n.Options[i].Value == value
		}
	case n.Tag == "input" && (n.AttrValue("type") == "checkbox" || n.AttrValue("type") == "radio"):
		n.Checked = value == "true" || value == "on" || value == "1"
	default:
		n.Value = value
	}
}

// verifyAll warns about captured locators that no longer resolve to a
// single element of the document
func verifyAll(doc *dom.Document, elements []capture.Element) error {
	for _, el := range elements {
		if el.Selector == "" {
			continue
		}
		var target *dom.Node
		if locator.IsXPath(el.Selector) {
			n, err := doc.ResolveXPath(el.Selector)
			if err != nil {
				return err
			}
			target = n
		} else {
			nodes, err := doc.Query(el.Selector)
			if err != nil {
				return err
			}
			if len(nodes) > 0 {
				target = nodes[0]
			}
		}
		ok, err := locator.Verify(doc, el.Selector, target)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(os.Stderr, "⚠ %s: %s does not match a single element\n", el.Name, el.Selector)
		}
	}
	return nil
}
