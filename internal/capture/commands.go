package capture

import (
	"github.com/v0xg/pomgen/internal/dom"
	"github.com/v0xg/pomgen/internal/inputstate"
	"github.com/v0xg/pomgen/internal/naming"
)

// Mode is the session's top-level state
type Mode int

const (
	Idle Mode = iota
	Capturing
)

func (m Mode) String() string {
	if m == Capturing {
		return "capturing"
	}
	return "idle"
}

// State is everything the session owns between events
type State struct {
	Mode           Mode
	Active         *dom.Node // control under live input capture
	ActiveSelector string
	ActiveURL      string
	Hovered        *dom.Node
	HoveredKey     string
}

// Collection is one page's captured elements
type Collection struct {
	URL      string
	Elements []Element
}

// Command is a single change produced by an event. apply reports whether
// the collection changed and needs persisting.
type Command interface {
	apply(st *State, c *Collection) bool
}

// UpsertElement adds the element unless one with the same selector exists.
// The name is re-checked against the collection it lands in.
type UpsertElement struct {
	Element Element
}

func (cmd UpsertElement) apply(_ *State, c *Collection) bool {
	if IndexOf(c.Elements, cmd.Element.Selector) >= 0 {
		return false
	}
	e := cmd.Element
	e.Name = naming.Unique(e.Name, Names(c.Elements))
	c.Elements = append(c.Elements, e)
	return true
}

// UpdateInputSnapshot merges a fresh input reading into the record with the
// selector
type UpdateInputSnapshot struct {
	Selector string
	Input    inputstate.Meta
}

func (cmd UpdateInputSnapshot) apply(_ *State, c *Collection) bool {
	i := IndexOf(c.Elements, cmd.Selector)
	if i < 0 {
		return false
	}
	merged := inputstate.Merge(c.Elements[i].Input, cmd.Input)
	c.Elements[i].Input = &merged
	return true
}

// TrackElement marks a control as under live input capture
type TrackElement struct {
	Node     *dom.Node
	Selector string
	URL      string
}

func (cmd TrackElement) apply(st *State, _ *Collection) bool {
	st.Active = cmd.Node
	st.ActiveSelector = cmd.Selector
	st.ActiveURL = cmd.URL
	return false
}

// RemoveTracking ends live input capture
type RemoveTracking struct{}

func (RemoveTracking) apply(st *State, _ *Collection) bool {
	st.Active = nil
	st.ActiveSelector = ""
	st.ActiveURL = ""
	return false
}

// Apply runs commands in order against the state and collection and reports
// whether the collection changed
func Apply(st *State, c *Collection, cmds ...Command) bool {
	dirty := false
	for _, cmd := range cmds {
		if cmd.apply(st, c) {
			dirty = true
		}
	}
	return dirty
}
