package browser

import (
	"time"

	"github.com/go-rod/rod"

	"github.com/v0xg/pomgen/internal/capture"
	"github.com/v0xg/pomgen/internal/locator"
)

const effectTimeout = 2 * time.Second

// pageEffects draws capture feedback through window.__pomgen
type pageEffects struct {
	page *rod.Page
}

var _ capture.Effects = (*pageEffects)(nil)

func (e *pageEffects) call(js string, args ...interface{}) error {
	_, err := e.page.Timeout(effectTimeout).Eval(js, args...)
	return err
}

func (e *pageEffects) ShowOverlay() error {
	return e.call(`() => window.__pomgen && window.__pomgen.show()`)
}

func (e *pageEffects) Teardown() error {
	return e.call(`() => window.__pomgen && window.__pomgen.teardown()`)
}

func (e *pageEffects) Highlight(h capture.Highlight) error {
	return e.call(`(h) => window.__pomgen && window.__pomgen.highlight(h)`, h)
}

func (e *pageEffects) HideHighlight() error {
	return e.call(`() => window.__pomgen && window.__pomgen.hide()`)
}

func (e *pageEffects) Pulse(sel string) error {
	return e.call(`(s, x) => window.__pomgen && window.__pomgen.pulse(s, x)`, sel, locator.IsXPath(sel))
}

func (e *pageEffects) FocusIndicator(sel string, on bool) error {
	return e.call(`(s, x, on) => window.__pomgen && window.__pomgen.focus(s, x, on)`, sel, locator.IsXPath(sel), on)
}
