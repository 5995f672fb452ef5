package dom

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	xpathIDStep  = regexp.MustCompile(`^//\*\[@id=(?:"([^"]*)"|'([^']*)')\]`)
	xpathTagStep = regexp.MustCompile(`^([a-zA-Z][\w-]*)\[(\d+)\]$`)
)

// ResolveXPath evaluates the positional XPath subset produced by locator
// derivation: an optional //*[@id="..."] anchor or a bare root tag, followed
// by tag[n] steps. Anything else is rejected.
func (d *Document) ResolveXPath(path string) (*Node, error) {
	var cur *Node
	rest := path

	if m := xpathIDStep.FindStringSubmatch(path); m != nil {
		id := m[1]
		if id == "" {
			id = m[2]
		}
		cur = d.ByID(id)
		if cur == nil {
			return nil, nil
		}
		rest = path[len(m[0]):]
	} else {
		head, tail, _ := strings.Cut(path, "/")
		if !strings.EqualFold(head, d.Root.Tag) {
			return nil, nil
		}
		cur = d.Root
		rest = "/" + tail
		if tail == "" {
			rest = ""
		}
	}

	for _, step := range strings.Split(strings.TrimPrefix(rest, "/"), "/") {
		if step == "" {
			continue
		}
		m := xpathTagStep.FindStringSubmatch(step)
		if m == nil {
			return nil, fmt.Errorf("unsupported xpath step %q", step)
		}
		idx, _ := strconv.Atoi(m[2])
		cur = nthChildOfType(cur, strings.ToLower(m[1]), idx)
		if cur == nil {
			return nil, nil
		}
	}
	return cur, nil
}

func nthChildOfType(parent *Node, tag string, idx int) *Node {
	seen := 0
	for _, c := range parent.Children {
		if c.Tag != tag {
			continue
		}
		seen++
		if seen == idx {
			return c
		}
	}
	return nil
}
