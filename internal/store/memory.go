package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process KV.
type Memory struct {
	hub

	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]json.RawMessage)}
}

// Get implements KV.
func (m *Memory) Get(_ context.Context, key string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append(json.RawMessage(nil), v...), nil
}

// Set implements KV.
func (m *Memory) Set(_ context.Context, key string, value json.RawMessage) error {
	m.mu.Lock()
	old := m.data[key]
	if value == nil {
		delete(m.data, key)
	} else {
		m.data[key] = append(json.RawMessage(nil), value...)
	}
	m.mu.Unlock()

	if !sameValue(old, value) {
		m.notify(Changes{key: {OldValue: old, NewValue: value}})
	}
	return nil
}

// Close implements KV.
func (m *Memory) Close() error { return nil }
