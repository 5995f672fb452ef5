package capture

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/v0xg/pomgen/internal/dom"
)

const (
	highlightPadding = 4
	tooltipGap       = 8
	tooltipMargin    = 8
	previewLen       = 50
)

// Size is a width and height in CSS pixels
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a position in CSS pixels
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Tooltip is the hover info shown next to the highlight
type Tooltip struct {
	Summary    string `json:"summary"`
	Preview    string `json:"preview,omitempty"`
	Dimensions string `json:"dimensions"`
	Hint       string `json:"hint"`
}

// Highlight is what the overlay should draw for the hovered element
type Highlight struct {
	Box       dom.Rect `json:"box"`
	Tooltip   Tooltip  `json:"tooltip"`
	TooltipAt Point    `json:"tooltipAt"`
}

// DefaultTooltipSize is used when the page does not report a measured size
var DefaultTooltipSize = Size{Width: 280, Height: 72}

// Describe builds the tooltip for an element and its bounding box
func Describe(el *dom.Node, rect dom.Rect) Tooltip {
	var summary strings.Builder
	summary.WriteString(el.Tag)
	if id := el.ID(); id != "" {
		summary.WriteString("#" + id)
	}
	for _, c := range el.Classes() {
		summary.WriteString("." + c)
	}

	preview := strings.Join(strings.Fields(el.Text), " ")
	if utf8.RuneCountInString(preview) > previewLen {
		preview = string([]rune(preview)[:previewLen]) + "…"
	}

	return Tooltip{
		Summary:    summary.String(),
		Preview:    preview,
		Dimensions: fmt.Sprintf("%d × %d", int(math.Round(rect.Width)), int(math.Round(rect.Height))),
		Hint:       "Click to capture",
	}
}

// Layout pads the element box and places the tooltip: above the element when
// it fits, below otherwise, clamped inside the viewport.
func Layout(rect dom.Rect, viewport, tip Size) (dom.Rect, Point) {
	box := dom.Rect{
		X:      rect.X - highlightPadding,
		Y:      rect.Y - highlightPadding,
		Width:  rect.Width + 2*highlightPadding,
		Height: rect.Height + 2*highlightPadding,
	}

	at := Point{X: box.X, Y: box.Y - tip.Height - tooltipGap}
	if at.Y < tooltipMargin {
		at.Y = box.Y + box.Height + tooltipGap
	}

	at.X = clamp(at.X, tooltipMargin, viewport.Width-tip.Width-tooltipMargin)
	at.Y = clamp(at.Y, tooltipMargin, viewport.Height-tip.Height-tooltipMargin)
	return box, at
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
