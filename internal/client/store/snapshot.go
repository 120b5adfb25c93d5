package store

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Snapshot returns the stored JSON value of every key.
func (s *Store) Snapshot(ctx context.Context) (map[string]json.RawMessage, error) {
	s.mu.Lock()
	all, err := s.backend.List(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(all))
	for k, v := range all {
		out[k] = json.RawMessage(v)
	}
	return out, nil
}

// Restore replaces the whole state with values and notifies subscribers of
// every key that existed before or after. Each value must be valid JSON.
func (s *Store) Restore(ctx context.Context, values map[string]json.RawMessage) error {
	raw := make(map[string][]byte, len(values))
	for k, v := range values {
		if !json.Valid(v) {
			return fmt.Errorf("restore %s: value is not valid JSON", k)
		}
		raw[k] = []byte(v)
	}

	s.mu.Lock()
	before, err := s.backend.List(ctx)
	if err == nil {
		err = replaceAll(ctx, s.backend, raw)
	}
	// the backend may be partially written, drop everything
	s.cache = make(map[string][]byte)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	changed := maps.Clone(raw)
	maps.Copy(changed, before)
	for _, key := range slices.Sorted(maps.Keys(changed)) {
		s.notify(key)
	}
	return nil
}

// Reset removes every key.
func (s *Store) Reset(ctx context.Context) error {
	return s.Restore(ctx, nil)
}

func replaceAll(ctx context.Context, b Backend, values map[string][]byte) error {
	if r, ok := b.(Replacer); ok {
		return r.Replace(ctx, values)
	}
	if err := b.Clear(ctx); err != nil {
		return err
	}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if err := b.Set(ctx, key, values[key]); err != nil {
			return err
		}
	}
	return nil
}
