package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/v0xg/pomgen/internal/dom"
	"github.com/v0xg/pomgen/internal/inputstate"
	"github.com/v0xg/pomgen/internal/locator"
	"github.com/v0xg/pomgen/internal/naming"
)

// Repository loads and saves a page's collection
type Repository interface {
	Elements(ctx context.Context, url string) ([]Element, error)
	SaveElements(ctx context.Context, url string, elements []Element) error
}

// Effects draws the session's feedback on the page. Failures are logged and
// never abort event handling.
type Effects interface {
	ShowOverlay() error
	Teardown() error
	Highlight(h Highlight) error
	HideHighlight() error
	Pulse(selector string) error
	FocusIndicator(selector string, on bool) error
}

// NopEffects draws nothing
type NopEffects struct{}

func (NopEffects) ShowOverlay() error { return nil }
func (NopEffects) Teardown() error { return nil }
func (NopEffects) Highlight(Highlight) error { return nil }
func (NopEffects) HideHighlight() error { return nil }
func (NopEffects) Pulse(string) error { return nil }
func (NopEffects) FocusIndicator(string, bool) error { return nil }

// EventKind identifies a page event
type EventKind string

const (
	EventStart        EventKind = "start"
	EventStop         EventKind = "stop"
	EventPointerMove  EventKind = "pointermove"
	EventPointerLeave EventKind = "pointerleave"
	EventClick        EventKind = "click"
	EventFocusIn      EventKind = "focusin"
	EventInput        EventKind = "input"
	EventChange       EventKind = "change"
	EventBlur         EventKind = "blur"
)

// Event is one page event delivered to the session
type Event struct {
	Kind     EventKind
	URL      string
	Target   *dom.Node
	Rect     dom.Rect
	Viewport Size
	Tooltip  Size // measured tooltip size, zero when unknown
}

// Reaction tells the page what to do with the originating event
type Reaction struct {
	PreventDefault bool
	Commands       []Command
}

// Session is the capture state machine for one browsing context
type Session struct {
	repo    Repository
	effects Effects
	logger  *slog.Logger

	mu    sync.Mutex
	state State
}

// NewSession creates an idle session
func NewSession(repo Repository, effects Effects) *Session {
	if effects == nil {
		effects = NopEffects{}
	}
	return &Session{
		repo:    repo,
		effects: effects,
		logger:  slog.Default().With("component", "capture"),
	}
}

// Mode returns the current state
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Mode
}

// State returns a copy of the session state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start enters Capturing. Starting an active session does nothing.
func (s *Session) Start(ctx context.Context) error {
	_, err := s.Dispatch(ctx, Event{Kind: EventStart})
	return err
}

// Stop returns to Idle and drops any in-flight tracking
func (s *Session) Stop(ctx context.Context) error {
	_, err := s.Dispatch(ctx, Event{Kind: EventStop})
	return err
}

// Dispatch feeds one event through the state machine. Events other than
// start are ignored while idle.
func (s *Session) Dispatch(ctx context.Context, ev Event) (Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Kind == EventStart {
		if s.state.Mode != Capturing {
			s.state = State{Mode: Capturing}
			s.effect("show overlay", s.effects.ShowOverlay())
			s.logger.Info("capture started")
		}
		return Reaction{}, nil
	}
	if s.state.Mode != Capturing {
		return Reaction{}, nil
	}

	switch ev.Kind {
	case EventStop:
		if s.state.ActiveSelector != "" {
			s.effect("focus indicator", s.effects.FocusIndicator(s.state.ActiveSelector, false))
		}
		s.effect("teardown", s.effects.Teardown())
		s.state = State{Mode: Idle}
		s.logger.Info("capture stopped")
		return Reaction{}, nil

	case EventPointerMove:
		return Reaction{}, s.hover(ev)

	case EventPointerLeave:
		s.state.Hovered = nil
		s.state.HoveredKey = ""
		s.effect("hide highlight", s.effects.HideHighlight())
		return Reaction{}, nil

	case EventClick:
		if ev.Target == nil {
			return Reaction{}, nil
		}
		if inputstate.IsInputLike(ev.Target) {
			return s.track(ctx, ev)
		}
		r, err := s.capture(ctx, ev)
		r.PreventDefault = true
		return r, err

	case EventFocusIn:
		if !inputstate.IsInputLike(ev.Target) {
			return Reaction{}, nil
		}
		return s.track(ctx, ev)

	case EventInput, EventChange:
		if !s.isActive(ev) {
			return Reaction{}, nil
		}
		cmds := []Command{UpdateInputSnapshot{Selector: s.state.ActiveSelector, Input: inputstate.Snapshot(ev.Target)}}
		return Reaction{Commands: cmds}, s.commit(ctx, s.state.ActiveURL, cmds)

	case EventBlur:
		if !s.isActive(ev) {
			return Reaction{}, nil
		}
		sel := s.state.ActiveSelector
		s.effect("pulse", s.effects.Pulse(sel))
		s.effect("focus indicator", s.effects.FocusIndicator(sel, false))
		cmds := []Command{RemoveTracking{}}
		Apply(&s.state, &Collection{}, cmds...)
		return Reaction{Commands: cmds}, nil
	}

	return Reaction{}, fmt.Errorf("capture: unknown event %q", ev.Kind)
}

func (s *Session) hover(ev Event) error {
	if ev.Target == nil {
		return nil
	}
	key := locator.Locate(ev.Target)
	if ev.Target == s.state.Hovered || (key != "" && key == s.state.HoveredKey) {
		return nil
	}
	s.state.Hovered = ev.Target
	s.state.HoveredKey = key

	tip := ev.Tooltip
	if tip.Width == 0 || tip.Height == 0 {
		tip = DefaultTooltipSize
	}
	box, at := Layout(ev.Rect, ev.Viewport, tip)
	s.effect("highlight", s.effects.Highlight(Highlight{
		Box:       box,
		Tooltip:   Describe(ev.Target, ev.Rect),
		TooltipAt: at,
	}))
	return nil
}

// isActive matches by selector, since every page event carries a freshly
// built node for the same control
func (s *Session) isActive(ev Event) bool {
	if s.state.ActiveSelector == "" || ev.Target == nil {
		return false
	}
	if ev.Target == s.state.Active {
		return true
	}
	return ev.URL == s.state.ActiveURL && locator.Locate(ev.Target) == s.state.ActiveSelector
}

// capture records a non-input element
func (s *Session) capture(ctx context.Context, ev Event) (Reaction, error) {
	sel := locator.Locate(ev.Target)
	if sel == "" {
		return Reaction{}, nil
	}
	s.effect("pulse", s.effects.Pulse(sel))

	coll, err := s.load(ctx, ev.URL)
	if err != nil {
		return Reaction{}, err
	}
	if IndexOf(coll.Elements, sel) >= 0 {
		return Reaction{}, nil
	}

	s.warnIfDuplicate(coll, ev.Target, sel)
	el := NewElement(naming.Name(ev.Target, Names(coll.Elements)), sel, ev.Target)
	cmds := []Command{UpsertElement{Element: el}}
	if err := s.apply(ctx, coll, cmds); err != nil {
		return Reaction{}, err
	}
	s.logger.Info("element captured", "url", ev.URL, "name", el.Name, "selector", sel)
	return Reaction{Commands: cmds}, nil
}

// track starts live input capture for a control
func (s *Session) track(ctx context.Context, ev Event) (Reaction, error) {
	if s.isActive(ev) {
		return Reaction{}, nil
	}
	sel := locator.Locate(ev.Target)
	if sel == "" {
		return Reaction{}, nil
	}

	var cmds []Command
	if s.state.ActiveSelector != "" {
		s.effect("focus indicator", s.effects.FocusIndicator(s.state.ActiveSelector, false))
		cmds = append(cmds, RemoveTracking{})
	}
	s.effect("focus indicator", s.effects.FocusIndicator(sel, true))

	coll, err := s.load(ctx, ev.URL)
	if err != nil {
		return Reaction{}, err
	}

	cmds = append(cmds, TrackElement{Node: ev.Target, Selector: sel, URL: ev.URL})
	if IndexOf(coll.Elements, sel) < 0 {
		s.warnIfDuplicate(coll, ev.Target, sel)
		el := NewElement(naming.Name(ev.Target, Names(coll.Elements)), sel, ev.Target)
		cmds = append(cmds, UpsertElement{Element: el})
	}
	cmds = append(cmds, UpdateInputSnapshot{Selector: sel, Input: inputstate.Snapshot(ev.Target)})

	if err := s.apply(ctx, coll, cmds); err != nil {
		return Reaction{}, err
	}
	s.logger.Debug("tracking input", "url", ev.URL, "selector", sel)
	return Reaction{Commands: cmds}, nil
}

func (s *Session) load(ctx context.Context, url string) (*Collection, error) {
	elements, err := s.repo.Elements(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("capture: load %s: %w", url, err)
	}
	return &Collection{URL: url, Elements: elements}, nil
}

// apply runs the commands and saves the collection once if it changed
func (s *Session) apply(ctx context.Context, coll *Collection, cmds []Command) error {
	if !Apply(&s.state, coll, cmds...) {
		return nil
	}
	if err := s.repo.SaveElements(ctx, coll.URL, coll.Elements); err != nil {
		return fmt.Errorf("capture: save %s: %w", coll.URL, err)
	}
	return nil
}

func (s *Session) commit(ctx context.Context, url string, cmds []Command) error {
	coll, err := s.load(ctx, url)
	if err != nil {
		return err
	}
	return s.apply(ctx, coll, cmds)
}

// warnIfDuplicate flags a new selector for what looks like an already
// captured control. The new record is still created.
func (s *Session) warnIfDuplicate(coll *Collection, el *dom.Node, sel string) {
	for _, e := range coll.Elements {
		if e.TagName != el.Tag {
			continue
		}
		for _, attr := range []string{"id", "name"} {
			want := el.AttrValue(attr)
			if want == "" {
				continue
			}
			if got, _ := e.Attributes.Get(attr); got == want {
				s.logger.Warn("selector changed for a previously captured element",
					"url", coll.URL, "existing", e.Selector, "new", sel, "attr", attr, "value", want)
				return
			}
		}
	}
}

func (s *Session) effect(what string, err error) {
	if err != nil {
		s.logger.Debug("page effect failed", "effect", what, "error", err)
	}
}
