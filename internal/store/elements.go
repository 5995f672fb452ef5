package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/v0xg/pomgen/internal/capture"
)

// ElementRepo keeps captured elements per page URL under KeyElements, along
// with the capturing flag and generation settings.
type ElementRepo struct {
	kv KV

	// serializes read-modify-write of the elements map within this process
	mu sync.Mutex
}

var _ capture.Repository = (*ElementRepo)(nil)

// NewElementRepo wraps a KV.
func NewElementRepo(kv KV) *ElementRepo {
	return &ElementRepo{kv: kv}
}

// KV returns the underlying store.
func (r *ElementRepo) KV() KV { return r.kv }

func (r *ElementRepo) all(ctx context.Context) (map[string][]capture.Element, error) {
	all := map[string][]capture.Element{}
	if _, err := GetJSON(ctx, r.kv, KeyElements, &all); err != nil {
		return nil, fmt.Errorf("element repo: load: %w", err)
	}
	if all == nil {
		all = map[string][]capture.Element{}
	}
	return all, nil
}

func (r *ElementRepo) update(ctx context.Context, url string, fn func([]capture.Element) ([]capture.Element, error)) ([]capture.Element, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	next, err := fn(append([]capture.Element(nil), all[url]...))
	if err != nil {
		return nil, err
	}
	if next == nil {
		delete(all, url)
	} else {
		all[url] = next
	}
	if err := SetJSON(ctx, r.kv, KeyElements, all); err != nil {
		return nil, fmt.Errorf("element repo: save: %w", err)
	}
	return next, nil
}

// All returns every stored collection keyed by URL.
func (r *ElementRepo) All(ctx context.Context) (map[string][]capture.Element, error) {
	return r.all(ctx)
}

// Elements returns the collection for url, empty when none exists.
func (r *ElementRepo) Elements(ctx context.Context, url string) ([]capture.Element, error) {
	all, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	if els := all[url]; els != nil {
		return els, nil
	}
	return []capture.Element{}, nil
}

// SaveElements replaces the collection for url. Names and non-empty
// selectors must be unique within the collection.
func (r *ElementRepo) SaveElements(ctx context.Context, url string, elements []capture.Element) error {
	if elements == nil {
		elements = []capture.Element{}
	}
	if err := checkUnique(elements); err != nil {
		return err
	}
	_, err := r.update(ctx, url, func([]capture.Element) ([]capture.Element, error) {
		return elements, nil
	})
	return err
}

// checkUnique rejects a collection with a repeated name or selector. Blank
// elements have no selector yet, so empty selectors may repeat.
func checkUnique(elements []capture.Element) error {
	names := make(map[string]int, len(elements))
	selectors := make(map[string]int, len(elements))
	for i, el := range elements {
		if j, ok := names[el.Name]; ok {
			return fmt.Errorf("%w: elements %d and %d are both named %q", ErrInvalid, j, i, el.Name)
		}
		names[el.Name] = i
		if el.Selector == "" {
			continue
		}
		if j, ok := selectors[el.Selector]; ok {
			return fmt.Errorf("%w: elements %d and %d share selector %q", ErrInvalid, j, i, el.Selector)
		}
		selectors[el.Selector] = i
	}
	return nil
}

// Reset drops the collection for url.
func (r *ElementRepo) Reset(ctx context.Context, url string) error {
	_, err := r.update(ctx, url, func([]capture.Element) ([]capture.Element, error) {
		return nil, nil
	})
	return err
}

// Remove deletes the element at index.
func (r *ElementRepo) Remove(ctx context.Context, url string, index int) (capture.Element, error) {
	var removed capture.Element
	_, err := r.update(ctx, url, func(els []capture.Element) ([]capture.Element, error) {
		if index < 0 || index >= len(els) {
			return nil, fmt.Errorf("element %d: %w", index, ErrNotFound)
		}
		removed = els[index]
		return append(els[:index], els[index+1:]...), nil
	})
	return removed, err
}

// Rename changes an element's name. Names stay unique within the page.
func (r *ElementRepo) Rename(ctx context.Context, url string, index int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalid)
	}
	_, err := r.update(ctx, url, func(els []capture.Element) ([]capture.Element, error) {
		if index < 0 || index >= len(els) {
			return nil, fmt.Errorf("element %d: %w", index, ErrNotFound)
		}
		for i, e := range els {
			if i != index && e.Name == name {
				return nil, fmt.Errorf("%w: name %q already used", ErrInvalid, name)
			}
		}
		els[index].Name = name
		return els, nil
	})
	return err
}

// SetSelector changes an element's locator. Selectors stay unique within the
// page.
func (r *ElementRepo) SetSelector(ctx context.Context, url string, index int, selector string) error {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return fmt.Errorf("%w: selector is empty", ErrInvalid)
	}
	_, err := r.update(ctx, url, func(els []capture.Element) ([]capture.Element, error) {
		if index < 0 || index >= len(els) {
			return nil, fmt.Errorf("element %d: %w", index, ErrNotFound)
		}
		if i := capture.IndexOf(els, selector); i >= 0 && i != index {
			return nil, fmt.Errorf("%w: selector already captured as %q", ErrInvalid, els[i].Name)
		}
		els[index].Selector = selector
		return els, nil
	})
	return err
}

// AddBlank appends a placeholder element named element{N} for manual editing.
func (r *ElementRepo) AddBlank(ctx context.Context, url string) (capture.Element, error) {
	var added capture.Element
	_, err := r.update(ctx, url, func(els []capture.Element) ([]capture.Element, error) {
		names := capture.Names(els)
		n := len(els) + 1
		for names["element"+strconv.Itoa(n)] {
			n++
		}
		added = capture.Element{Name: "element" + strconv.Itoa(n), Attributes: capture.Attributes{}}
		return append(els, added), nil
	})
	return added, err
}

// Capturing reports the capturing flag.
func (r *ElementRepo) Capturing(ctx context.Context) (bool, error) {
	var on bool
	if _, err := GetJSON(ctx, r.kv, KeyCapturing, &on); err != nil {
		return false, fmt.Errorf("element repo: capturing: %w", err)
	}
	return on, nil
}

// SetCapturing writes the capturing flag. Capture sessions watch this key.
func (r *ElementRepo) SetCapturing(ctx context.Context, on bool) error {
	return SetJSON(ctx, r.kv, KeyCapturing, on)
}

// Setting returns a stored string setting, "" when unset.
func (r *ElementRepo) Setting(ctx context.Context, key string) (string, error) {
	var v string
	if _, err := GetJSON(ctx, r.kv, key, &v); err != nil {
		return "", fmt.Errorf("element repo: %s: %w", key, err)
	}
	return v, nil
}

// SetSetting stores a string setting. An empty value clears it.
func (r *ElementRepo) SetSetting(ctx context.Context, key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return r.kv.Set(ctx, key, nil)
	}
	return SetJSON(ctx, r.kv, key, value)
}
