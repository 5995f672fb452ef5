package inputstate

import (
	"encoding/json"
	"testing"

	"github.com/v0xg/pomgen/internal/dom"
)

const controls = `<html><body><form>
  <input id="agree" type="checkbox" checked>
  <label for="agree">I agree</label>
  <input id="r1" type="radio" name="plan">
  <input id="qty" type="number" value="3">
  <input id="q" type="search" value="shoes">
  <input id="plain" value="x">
  <textarea id="notes">Some notes</textarea>
  <select id="tags" multiple>
    <option value="a" selected>A</option>
    <option value="b" selected>B</option>
    <option value="c">C</option>
  </select>
  <select id="country"><option value="">Pick</option><option value="nl" selected>NL</option></select>
  <select id="none"><option value="x">X</option></select>
  <div id="editor" contenteditable="true">  draft text </div>
  <label>Nickname <input id="nick" name="nick" placeholder="e.g. Bob"></label>
  <input id="aria" aria-label="Search site">
  <span id="span">hi</span>
</form></body></html>`

func byID(t *testing.T, id string) *dom.Node {
	t.Helper()
	doc, err := dom.ParseString(controls)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	n := doc.ByID(id)
	if n == nil {
		t.Fatalf("no element #%s", id)
	}
	return n
}

func TestRead(t *testing.T) {
	tests := []struct {
		id   string
		want State
	}{
		{"agree", State{Type: "checkbox", Value: Bool(true)}},
		{"r1", State{Type: "radio", Value: Bool(false)}},
		{"qty", State{Type: "number", Value: String("3")}},
		{"q", State{Type: "text", Value: String("shoes")}},
		{"plain", State{Type: "text", Value: String("x")}},
		{"notes", State{Type: "textarea", Value: String("Some notes")}},
		{"tags", State{Type: "select-multiple", Value: List("a", "b")}},
		{"country", State{Type: "select-one", Value: String("nl")}},
		{"none", State{Type: "select-one", Value: String("")}},
		{"editor", State{Type: "contenteditable", Value: String("draft text")}},
		{"span", State{Type: "text", Value: String("")}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got := Read(byID(t, tt.id))
			if got.Type != tt.want.Type || !got.Value.Equal(tt.want.Value) {
				t.Fatalf("expected %s=%v, got %s=%v", tt.want.Type, tt.want.Value, got.Type, got.Value)
			}
		})
	}
}

func TestIsInputLike(t *testing.T) {
	for id, want := range map[string]bool{"agree": true, "notes": true, "tags": true, "editor": true, "span": false} {
		if got := IsInputLike(byID(t, id)); got != want {
			t.Errorf("#%s: expected %v, got %v", id, want, got)
		}
	}
}

func TestLabelText(t *testing.T) {
	tests := map[string]string{
		"agree": "I agree",
		"nick":  "Nickname",
		"aria":  "Search site",
	}
	for id, want := range tests {
		got, ok := LabelText(byID(t, id))
		if !ok || got != want {
			t.Errorf("#%s: expected %q, got %q (%v)", id, want, got, ok)
		}
	}
	if _, ok := LabelText(byID(t, "qty")); ok {
		t.Errorf("expected no label for #qty")
	}
}

func TestSnapshotAndMerge(t *testing.T) {
	meta := Snapshot(byID(t, "nick"))
	if meta.NameAttr != "nick" || meta.Placeholder != "e.g. Bob" || meta.LabelText != "Nickname" {
		t.Fatalf("unexpected snapshot %+v", meta)
	}

	merged := Merge(&meta, Meta{Type: "text", Value: String("Bobby")})
	if merged.Value.AsString() != "Bobby" {
		t.Fatalf("expected new value, got %v", merged.Value)
	}
	if merged.NameAttr != "nick" || merged.LabelText != "Nickname" {
		t.Fatalf("expected descriptive fields preserved, got %+v", merged)
	}
}

func TestValueJSON(t *testing.T) {
	meta := Meta{Type: "select-multiple", Value: List("a", "b")}
	data, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"type":"select-multiple","value":["a","b"]}` {
		t.Fatalf("unexpected json %s", data)
	}

	var back Meta
	if err := json.Unmarshal([]byte(`{"type":"checkbox","value":true}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Value.IsBool() || !back.Value.AsBool() {
		t.Fatalf("expected bool true, got %v", back.Value)
	}

	if err := json.Unmarshal([]byte(`{"type":"text","value":"hi"}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Value.AsString() != "hi" || back.Value.IsBool() {
		t.Fatalf("expected string hi, got %v", back.Value)
	}

	empty, _ := json.Marshal(List())
	if string(empty) != "[]" {
		t.Fatalf("expected empty array, got %s", empty)
	}
}
