package browser

import (
	"fmt"

	"github.com/go-rod/rod"

	"github.com/v0xg/pomgen/internal/capture"
	"github.com/v0xg/pomgen/internal/locator"
)

// Status of a stored locator against the live page
type Status string

const (
	StatusOK        Status = "ok"
	StatusMissing   Status = "missing"
	StatusAmbiguous Status = "ambiguous"
	StatusInvalid   Status = "invalid"
)

// CheckResult is one element's locator check
type CheckResult struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
	Matches  int    `json:"matches"`
	Status   Status `json:"status"`
	Error    string `json:"error,omitempty"`
}

// statusOf classifies a match count
func statusOf(matches int) Status {
	switch {
	case matches == 1:
		return StatusOK
	case matches == 0:
		return StatusMissing
	default:
		return StatusAmbiguous
	}
}

// Check counts how many nodes each stored locator matches in the current
// document. A healthy locator matches exactly one.
func (b *Browser) Check(elements []capture.Element) []CheckResult {
	results := make([]CheckResult, 0, len(elements))
	for _, el := range elements {
		r := CheckResult{Name: el.Name, Selector: el.Selector}
		n, err := countMatches(b.page, el.Selector)
		if err != nil {
			r.Status = StatusInvalid
			r.Error = err.Error()
		} else {
			r.Matches = n
			r.Status = statusOf(n)
		}
		results = append(results, r)
	}
	return results
}

func countMatches(page *rod.Page, sel string) (int, error) {
	if sel == "" {
		return 0, fmt.Errorf("empty locator")
	}

	var (
		els rod.Elements
		err error
	)
	if locator.IsXPath(sel) {
		els, err = page.ElementsX(sel)
	} else {
		els, err = page.Elements(sel)
	}
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", sel, err)
	}
	return len(els), nil
}
