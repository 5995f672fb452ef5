package locator

import (
	"fmt"

	"github.com/v0xg/pomgen/internal/dom"
)

// Verify re-queries the locator against the document and reports whether it
// resolves to exactly the given element.
func Verify(doc *dom.Document, locator string, el *dom.Node) (bool, error) {
	if locator == "" {
		return false, fmt.Errorf("empty locator")
	}

	if IsXPath(locator) {
		n, err := doc.ResolveXPath(locator)
		if err != nil {
			return false, err
		}
		return n == el, nil
	}

	nodes, err := doc.Query(locator)
	if err != nil {
		return false, err
	}
	return len(nodes) == 1 && nodes[0] == el, nil
}
