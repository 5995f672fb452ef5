// Package store provides the shared key-value store and the element
// repository built on it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// Keys used by the capture engine and its surfaces.
const (
	KeyElements         = "elements"
	KeyCapturing        = "capturing"
	KeyAPIKey           = "apiKey"
	KeyCustomGuidelines = "customGuidelines"
)

var (
	// ErrNotFound is returned for lookups of missing records.
	ErrNotFound = errors.New("not found")
	// ErrInvalid is returned for edits that would break a collection.
	ErrInvalid = errors.New("invalid")
)

// Change is the before and after value of a key. A nil value means the key
// was absent.
type Change struct {
	OldValue json.RawMessage `json:"oldValue,omitempty"`
	NewValue json.RawMessage `json:"newValue,omitempty"`
}

// Changes maps each written key to its change.
type Changes map[string]Change

// KV is a JSON value store with change notification. Every write from any
// caller is delivered to every subscriber.
type KV interface {
	// Get returns the stored value, or nil when the key is absent.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	// Set stores value under key. A nil value removes the key.
	Set(ctx context.Context, key string, value json.RawMessage) error
	// Subscribe registers fn for change notifications. Callbacks run on the
	// writer's goroutine and must not block.
	Subscribe(fn func(Changes)) (unsubscribe func())
	Close() error
}

// hub fans change notifications out to subscribers.
type hub struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Changes)
}

func (h *hub) Subscribe(fn func(Changes)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]func(Changes))
	}
	id := h.next
	h.next++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

func (h *hub) notify(c Changes) {
	h.mu.Lock()
	fns := make([]func(Changes), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

func sameValue(a, b json.RawMessage) bool {
	return string(a) == string(b)
}

// GetJSON decodes the value under key into v. It reports false when the key
// is absent.
func GetJSON(ctx context.Context, kv KV, key string, v any) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, raw)
}
