package capture

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/v0xg/pomgen/internal/dom"
	"github.com/v0xg/pomgen/internal/inputstate"
)

type memRepo struct {
	data  map[string][]Element
	saves int
}

func newMemRepo() *memRepo {
	return &memRepo{data: map[string][]Element{}}
}

func (r *memRepo) Elements(_ context.Context, url string) ([]Element, error) {
	return append([]Element(nil), r.data[url]...), nil
}

func (r *memRepo) SaveElements(_ context.Context, url string, elements []Element) error {
	r.saves++
	r.data[url] = append([]Element(nil), elements...)
	return nil
}

type recordedEffects struct {
	calls      []string
	highlights []Highlight
}

func (e *recordedEffects) ShowOverlay() error { e.calls = append(e.calls, "show"); return nil }
func (e *recordedEffects) Teardown() error { e.calls = append(e.calls, "teardown"); return nil }
func (e *recordedEffects) Highlight(h Highlight) error {
	e.calls = append(e.calls, "highlight")
	e.highlights = append(e.highlights, h)
	return nil
}
func (e *recordedEffects) HideHighlight() error { e.calls = append(e.calls, "hide"); return nil }
func (e *recordedEffects) Pulse(sel string) error {
	e.calls = append(e.calls, "pulse "+sel)
	return nil
}
func (e *recordedEffects) FocusIndicator(sel string, on bool) error {
	if on {
		e.calls = append(e.calls, "focus "+sel)
	} else {
		e.calls = append(e.calls, "unfocus "+sel)
	}
	return nil
}

const pageURL = "https://shop.test/login"

func startedSession(t *testing.T) (*Session, *memRepo, *recordedEffects) {
	t.Helper()
	repo := newMemRepo()
	fx := &recordedEffects{}
	s := NewSession(repo, fx)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s, repo, fx
}

func node(t *testing.T, doc *dom.Document, selector string) *dom.Node {
	t.Helper()
	n, err := doc.QueryOne(selector)
	if err != nil || n == nil {
		t.Fatalf("query %q: %v", selector, err)
	}
	return n
}

func TestIdleSessionIgnoresEvents(t *testing.T) {
	repo := newMemRepo()
	s := NewSession(repo, nil)
	doc, _ := dom.ParseString(`<html><body><button id="go">Go</button></body></html>`)

	r, err := s.Dispatch(context.Background(), Event{Kind: EventClick, URL: pageURL, Target: node(t, doc, "#go")})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if r.PreventDefault || len(repo.data[pageURL]) != 0 {
		t.Fatalf("expected idle session to ignore click")
	}
}

func TestClickCapturesNonInput(t *testing.T) {
	s, repo, fx := startedSession(t)
	doc, _ := dom.ParseString(`<html><body>
		<button value="Submit">Go</button>
		<button value="Submit">Go</button>
	</body></html>`)
	buttons, _ := doc.Query("button")

	ctx := context.Background()
	for _, b := range buttons {
		r, err := s.Dispatch(ctx, Event{Kind: EventClick, URL: pageURL, Target: b})
		if err != nil {
			t.Fatalf("click: %v", err)
		}
		if !r.PreventDefault {
			t.Fatalf("expected default to be suppressed")
		}
	}

	got := repo.data[pageURL]
	if len(got) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(got))
	}
	if got[0].Name != "submit" || got[1].Name != "submit2" {
		t.Fatalf("expected submit, submit2, got %s, %s", got[0].Name, got[1].Name)
	}
	if got[0].Selector == got[1].Selector {
		t.Fatalf("expected distinct selectors, got %s", got[0].Selector)
	}
	if got[0].TextContent != "Go" || got[0].TagName != "button" {
		t.Fatalf("unexpected record %+v", got[0])
	}
	if fx.calls[0] != "show" || fx.calls[1] != "pulse "+got[0].Selector {
		t.Fatalf("unexpected effects %v", fx.calls)
	}
}

func TestClickSameElementTwiceKeepsOneRecord(t *testing.T) {
	s, repo, _ := startedSession(t)
	doc, _ := dom.ParseString(`<html><body><a id="home" href="/">Home</a></body></html>`)
	a := node(t, doc, "#home")

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := s.Dispatch(ctx, Event{Kind: EventClick, URL: pageURL, Target: a}); err != nil {
			t.Fatalf("click: %v", err)
		}
	}
	if n := len(repo.data[pageURL]); n != 1 {
		t.Fatalf("expected 1 element, got %d", n)
	}
	if repo.saves != 1 {
		t.Fatalf("expected 1 save, got %d", repo.saves)
	}
}

func TestLiveInputCapture(t *testing.T) {
	s, repo, fx := startedSession(t)
	doc, _ := dom.ParseString(`<html><body><form><input placeholder="Email"></form></body></html>`)
	input := node(t, doc, "input")
	ctx := context.Background()

	r, err := s.Dispatch(ctx, Event{Kind: EventClick, URL: pageURL, Target: input})
	if err != nil {
		t.Fatalf("click: %v", err)
	}
	if r.PreventDefault {
		t.Fatalf("expected input click to keep default behaviour")
	}

	got := repo.data[pageURL]
	if len(got) != 1 || got[0].Name != "email" {
		t.Fatalf("expected one element named email, got %+v", got)
	}
	if got[0].Input == nil || got[0].Input.Type != "text" || got[0].Input.Placeholder != "Email" {
		t.Fatalf("expected input snapshot attached, got %+v", got[0].Input)
	}
	sel := got[0].Selector
	if st := s.State(); st.ActiveSelector != sel {
		t.Fatalf("expected %s to be tracked, got %q", sel, st.ActiveSelector)
	}

	// a second focus on the same control does nothing
	saves := repo.saves
	if _, err := s.Dispatch(ctx, Event{Kind: EventFocusIn, URL: pageURL, Target: input}); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if repo.saves != saves {
		t.Fatalf("expected re-entry to be a no-op")
	}

	input.Value = "me@shop.test"
	if _, err := s.Dispatch(ctx, Event{Kind: EventInput, URL: pageURL, Target: input}); err != nil {
		t.Fatalf("input: %v", err)
	}
	got = repo.data[pageURL]
	if v := got[0].Input.Value.AsString(); v != "me@shop.test" {
		t.Fatalf("expected typed value, got %q", v)
	}
	if got[0].Input.Placeholder != "Email" {
		t.Fatalf("expected placeholder preserved, got %+v", got[0].Input)
	}

	if _, err := s.Dispatch(ctx, Event{Kind: EventBlur, URL: pageURL, Target: input}); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if st := s.State(); st.Active != nil || st.ActiveSelector != "" {
		t.Fatalf("expected tracking cleared, got %+v", st)
	}

	want := []string{"show", "focus " + sel, "pulse " + sel, "unfocus " + sel}
	if len(fx.calls) != len(want) {
		t.Fatalf("expected effects %v, got %v", want, fx.calls)
	}
	for i := range want {
		if fx.calls[i] != want[i] {
			t.Fatalf("expected effects %v, got %v", want, fx.calls)
		}
	}

	// typing after blur is no longer recorded
	input.Value = "other"
	if _, err := s.Dispatch(ctx, Event{Kind: EventInput, URL: pageURL, Target: input}); err != nil {
		t.Fatalf("input: %v", err)
	}
	if v := repo.data[pageURL][0].Input.Value.AsString(); v != "me@shop.test" {
		t.Fatalf("expected value unchanged after blur, got %q", v)
	}
}

func TestFocusReusesExistingRecord(t *testing.T) {
	s, repo, _ := startedSession(t)
	doc, _ := dom.ParseString(`<html><body><input id="agree" type="checkbox"></body></html>`)
	box := node(t, doc, "#agree")

	repo.data[pageURL] = []Element{{Name: "acceptTerms", Selector: "input#agree", TagName: "input"}}

	box.Checked = true
	if _, err := s.Dispatch(context.Background(), Event{Kind: EventFocusIn, URL: pageURL, Target: box}); err != nil {
		t.Fatalf("focus: %v", err)
	}

	got := repo.data[pageURL]
	if len(got) != 1 || got[0].Name != "acceptTerms" {
		t.Fatalf("expected existing record reused, got %+v", got)
	}
	if got[0].Input == nil || !got[0].Input.Value.Equal(inputstate.Bool(true)) {
		t.Fatalf("expected checked snapshot, got %+v", got[0].Input)
	}
}

func TestSnapshotNodesMatchActiveBySelector(t *testing.T) {
	s, repo, _ := startedSession(t)
	snap := dom.Snapshot{
		URL: pageURL,
		Chain: []dom.Link{
			{Tag: "textarea", Attrs: [][]string{{"name", "bio"}}, Siblings: []string{"label", "textarea"}, Index: 1},
			{Tag: "form", Siblings: []string{"form"}, Index: 0},
			{Tag: "body", Siblings: []string{"head", "body"}, Index: 1},
			{Tag: "html"},
		},
	}
	ctx := context.Background()

	first, err := dom.FromSnapshot(snap)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := s.Dispatch(ctx, Event{Kind: EventFocusIn, URL: pageURL, Target: first}); err != nil {
		t.Fatalf("focus: %v", err)
	}

	snap.Value = "hello"
	second, _ := dom.FromSnapshot(snap)
	if _, err := s.Dispatch(ctx, Event{Kind: EventChange, URL: pageURL, Target: second}); err != nil {
		t.Fatalf("change: %v", err)
	}

	got := repo.data[pageURL]
	if len(got) != 1 || got[0].Name != "bio" {
		t.Fatalf("expected one record named bio, got %+v", got)
	}
	if got[0].Input.Type != "textarea" || got[0].Input.Value.AsString() != "hello" {
		t.Fatalf("expected updated textarea value, got %+v", got[0].Input)
	}
}

func TestStopClearsTracking(t *testing.T) {
	s, _, fx := startedSession(t)
	doc, _ := dom.ParseString(`<html><body><select id="size"><option value="s" selected>S</option></select></body></html>`)
	ctx := context.Background()

	if _, err := s.Dispatch(ctx, Event{Kind: EventFocusIn, URL: pageURL, Target: node(t, doc, "#size")}); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	st := s.State()
	if st.Mode != Idle || st.ActiveSelector != "" {
		t.Fatalf("expected idle without tracking, got %+v", st)
	}
	if last := fx.calls[len(fx.calls)-1]; last != "teardown" {
		t.Fatalf("expected teardown last, got %v", fx.calls)
	}
}

func TestHoverHighlightsOnlyOnChange(t *testing.T) {
	s, _, fx := startedSession(t)
	doc, _ := dom.ParseString(`<html><body><p class="lead intro">Welcome back</p><p>Other</p></body></html>`)
	ps, _ := doc.Query("p")
	ctx := context.Background()
	vp := Size{Width: 1280, Height: 800}
	rect := dom.Rect{X: 100, Y: 200, Width: 300, Height: 40}

	for _, p := range []*dom.Node{ps[0], ps[0], ps[1]} {
		if _, err := s.Dispatch(ctx, Event{Kind: EventPointerMove, Target: p, Rect: rect, Viewport: vp}); err != nil {
			t.Fatalf("move: %v", err)
		}
	}
	if len(fx.highlights) != 2 {
		t.Fatalf("expected 2 highlights, got %d", len(fx.highlights))
	}
	if got := fx.highlights[0].Tooltip.Summary; got != "p.lead.intro" {
		t.Fatalf("expected p.lead.intro, got %q", got)
	}

	if _, err := s.Dispatch(ctx, Event{Kind: EventPointerLeave}); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if s.State().Hovered != nil {
		t.Fatalf("expected hover cleared")
	}
}

func TestLayout(t *testing.T) {
	vp := Size{Width: 1000, Height: 600}
	tip := Size{Width: 200, Height: 50}

	tests := []struct {
		name string
		rect dom.Rect
		want Point
	}{
		{"above", dom.Rect{X: 100, Y: 300, Width: 50, Height: 20}, Point{X: 96, Y: 296 - 50 - 8}},
		{"below when top overflows", dom.Rect{X: 100, Y: 10, Width: 50, Height: 20}, Point{X: 96, Y: 6 + 28 + 8}},
		{"clamped right", dom.Rect{X: 950, Y: 300, Width: 40, Height: 20}, Point{X: 1000 - 200 - 8, Y: 238}},
		{"clamped left", dom.Rect{X: 0, Y: 300, Width: 40, Height: 20}, Point{X: 8, Y: 238}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, at := Layout(tt.rect, vp, tip)
			if box.X != tt.rect.X-4 || box.Width != tt.rect.Width+8 {
				t.Fatalf("expected 4px padding, got %+v", box)
			}
			if at != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, at)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	doc, _ := dom.ParseString(`<html><body><div id="hero">` +
		`This headline is definitely longer than fifty characters in total` +
		`</div></body></html>`)
	tip := Describe(node(t, doc, "#hero"), dom.Rect{Width: 320.4, Height: 99.6})

	if tip.Summary != "div#hero" {
		t.Fatalf("expected div#hero, got %q", tip.Summary)
	}
	if tip.Dimensions != "320 × 100" {
		t.Fatalf("expected 320 × 100, got %q", tip.Dimensions)
	}
	if tip.Preview != "This headline is definitely longer than fifty char…" {
		t.Fatalf("unexpected preview %q", tip.Preview)
	}
	if tip.Hint != "Click to capture" {
		t.Fatalf("unexpected hint %q", tip.Hint)
	}
}

func TestElementAttributesKeepOrder(t *testing.T) {
	doc, _ := dom.ParseString(`<html><body><input type="email" name="mail" id="m" placeholder="Email"></body></html>`)
	el := NewElement("mail", "input#m", node(t, doc, "#m"))

	data, err := json.Marshal(el.Attributes)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"email","name":"mail","id":"m","placeholder":"Email"}`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}

	var back Attributes
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != 4 || back[2].Name != "id" {
		t.Fatalf("expected order preserved, got %+v", back)
	}
}
