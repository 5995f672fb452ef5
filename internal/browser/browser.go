// Package browser drives a Chromium tab through go-rod: it launches the
// browser, injects the capture overlay and forwards page events to a capture
// session.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Options configures the browser
type Options struct {
	Width      int
	Height     int
	Timeout    time.Duration
	Headless   bool
	ProfileDir string // Chrome/Chromium profile directory for authenticated sessions
}

// Browser wraps the Rod browser and its single tab
type Browser struct {
	browser *rod.Browser
	page    *rod.Page
	opts    Options
}

// Launch starts a browser with one blank tab. Navigation is separate so the
// event bridge can be attached before the first document loads.
func Launch(opts Options) (*Browser, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Width == 0 || opts.Height == 0 {
		opts.Width, opts.Height = 1280, 800
	}

	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(opts.Headless)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("open tab: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	return &Browser{browser: browser, page: page, opts: opts}, nil
}

// Close cleans up browser resources
func (b *Browser) Close() {
	if b.page != nil {
		b.page.Close()
	}
	if b.browser != nil {
		b.browser.Close()
	}
}

// Page returns the underlying Rod page
func (b *Browser) Page() *rod.Page {
	return b.page
}

// Open navigates the tab and waits for the page to settle
func (b *Browser) Open(ctx context.Context, url string) error {
	page := b.page.Context(ctx).Timeout(b.opts.Timeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}

	// Don't hang on persistent connections (WebSockets, polling)
	b.page.Timeout(5*time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()
	waitForInteractiveElements(b.page, 5*time.Second)
	return nil
}

// URL returns the address of the current document
func (b *Browser) URL() (string, error) {
	info, err := b.page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// HTML returns the serialized current document
func (b *Browser) HTML() (string, error) {
	return b.page.HTML()
}

// waitForInteractiveElements polls until a visible control appears or the
// timeout passes. Client-rendered pages need time to hydrate.
func waitForInteractiveElements(page *rod.Page, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	checkInterval := 200 * time.Millisecond

	for time.Now().Before(deadline) {
		res, err := page.Eval(`() => {
			let visible = 0;
			document.querySelectorAll('a[href], button, input:not([type="hidden"]), textarea, select, [contenteditable]')
				.forEach(el => { if (el.offsetParent) visible++; });
			return visible;
		}`)
		if err == nil && res.Value.Int() > 0 {
			return
		}
		time.Sleep(checkInterval)
	}
}
