package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ysmood/gson"

	"github.com/v0xg/pomgen/internal/capture"
)

const eventBuffer = 512

// Driver connects a capture session to a live tab
type Driver struct {
	browser *Browser
	session *capture.Session
	events  chan []byte
	logger  *slog.Logger
	stop    func() error
	remove  func() error
}

// NewDriver creates a session drawing on the browser's tab and saving to repo
func NewDriver(b *Browser, repo capture.Repository) *Driver {
	return &Driver{
		browser: b,
		session: capture.NewSession(repo, &pageEffects{page: b.Page()}),
		events:  make(chan []byte, eventBuffer),
		logger:  slog.Default().With("component", "browser"),
	}
}

// Session returns the driven capture session
func (d *Driver) Session() *capture.Session {
	return d.session
}

// Attach exposes the event binding and registers the page script for every
// new document. Call it before Open.
func (d *Driver) Attach() error {
	page := d.browser.Page()

	// The binding callback runs on rod's event goroutine; it only enqueues.
	stop, err := page.Expose(bindingName, func(j gson.JSON) (interface{}, error) {
		raw, err := j.MarshalJSON()
		if err != nil {
			return nil, err
		}
		select {
		case d.events <- raw:
		default:
			d.logger.Warn("page event dropped, queue full")
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("expose %s: %w", bindingName, err)
	}
	d.stop = stop

	remove, err := page.EvalOnNewDocument("(" + pageScript + ")()")
	if err != nil {
		return fmt.Errorf("register page script: %w", err)
	}
	d.remove = remove

	// Covers a document that is already loaded
	if _, err := page.Eval(pageScript); err != nil {
		d.logger.Debug("inject into current document failed", "error", err)
	}
	return nil
}

// Run dispatches page events until ctx is done. Values on toggle start or
// stop capturing; nil disables toggling.
func (d *Driver) Run(ctx context.Context, toggle <-chan bool) error {
	defer d.detach()

	for {
		select {
		case <-ctx.Done():
			if err := d.session.Stop(context.Background()); err != nil {
				d.logger.Debug("stop on exit failed", "error", err)
			}
			return nil

		case on := <-toggle:
			var err error
			if on {
				err = d.session.Start(ctx)
			} else {
				err = d.session.Stop(ctx)
			}
			if err != nil {
				d.logger.Error("toggle capture failed", "capturing", on, "error", err)
			}

		case raw := <-d.events:
			d.handle(ctx, raw)
		}
	}
}

func (d *Driver) handle(ctx context.Context, raw []byte) {
	kind, ev, err := decodeEvent(raw)
	if err != nil {
		d.logger.Warn("bad page event", "error", err)
		return
	}

	if kind == kindReady {
		// New document: the overlay went away with the old one
		if d.session.Mode() == capture.Capturing {
			eff := &pageEffects{page: d.browser.Page()}
			if err := eff.ShowOverlay(); err != nil {
				d.logger.Debug("reinstall overlay failed", "error", err)
			}
		}
		d.logger.Debug("document ready", "url", ev.URL)
		return
	}

	reaction, err := d.session.Dispatch(ctx, ev)
	if err != nil {
		d.logger.Error("capture event failed", "kind", kind, "url", ev.URL, "error", err)
		return
	}
	if len(reaction.Commands) > 0 {
		d.logger.Debug("capture event applied", "kind", kind, "commands", len(reaction.Commands))
	}
}

func (d *Driver) detach() {
	if d.remove != nil {
		d.remove()
	}
	if d.stop != nil {
		d.stop()
	}
}
