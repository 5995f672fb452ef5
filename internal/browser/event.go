package browser

import (
	"encoding/json"
	"fmt"

	"github.com/v0xg/pomgen/internal/capture"
	"github.com/v0xg/pomgen/internal/dom"
)

// kindReady is sent by the page script when a new document has loaded
const kindReady = "ready"

// pageEvent is the message the page script posts through the binding
type pageEvent struct {
	Kind     string        `json:"kind"`
	URL      string        `json:"url"`
	Target   *dom.Snapshot `json:"target,omitempty"`
	Viewport capture.Size  `json:"viewport"`
	Tooltip  capture.Size  `json:"tooltip"`
}

// decodeEvent turns a binding payload into a session event. The target node
// is rebuilt from its snapshot, so every event carries a fresh tree.
func decodeEvent(raw []byte) (string, capture.Event, error) {
	var pe pageEvent
	if err := json.Unmarshal(raw, &pe); err != nil {
		return "", capture.Event{}, fmt.Errorf("decode page event: %w", err)
	}
	if pe.Kind == "" {
		return "", capture.Event{}, fmt.Errorf("decode page event: missing kind")
	}

	ev := capture.Event{
		Kind:     capture.EventKind(pe.Kind),
		URL:      pe.URL,
		Viewport: pe.Viewport,
		Tooltip:  pe.Tooltip,
	}
	if pe.Target != nil {
		if pe.Target.URL == "" {
			pe.Target.URL = pe.URL
		}
		node, err := dom.FromSnapshot(*pe.Target)
		if err != nil {
			return "", capture.Event{}, err
		}
		ev.Target = node
		ev.Rect = pe.Target.Rect
	}
	return pe.Kind, ev, nil
}
