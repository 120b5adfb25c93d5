// Package store is the client's persistent state adapter: a JSON value per
// key on top of a durable Backend, an in-memory cache and change
// notification for the presentation layer.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/notetake/internal/logging"
)

// Store caches decoded state per key. Mutations replace the stored value
// wholesale and notify subscribers once each.
type Store struct {
	backend Backend
	logger  logging.Logger

	mu    sync.Mutex
	cache map[string][]byte

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(key string)
}

func New(backend Backend, l logging.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  l.With("module", "store"),
		cache:   make(map[string][]byte),
		subs:    make(map[int]func(string)),
	}
}

// Load decodes the value under key into v. A missing key leaves v untouched
// so callers keep their default.
func (s *Store) Load(ctx context.Context, key string, v any) error {
	s.mu.Lock()
	raw, err := s.raw(ctx, key)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Save encodes v and writes it under key.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	err = s.write(ctx, key, raw)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(key)
	return nil
}

// Remove deletes key.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	err := s.backend.Delete(ctx, key)
	if err == nil {
		delete(s.cache, key)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(key)
	return nil
}

// Update runs a read-modify-write of the value under key while holding the
// store lock. fn receives the current value (zero when missing) and returns
// the replacement.
func Update[T any](ctx context.Context, s *Store, key string, fn func(T) T) (T, error) {
	var zero T

	s.mu.Lock()
	raw, err := s.raw(ctx, key)
	if err != nil {
		s.mu.Unlock()
		return zero, err
	}

	var current T
	if raw != nil {
		if err := json.Unmarshal(raw, &current); err != nil {
			s.mu.Unlock()
			return zero, fmt.Errorf("decode %s: %w", key, err)
		}
	}

	next := fn(current)
	encoded, err := json.Marshal(next)
	if err != nil {
		s.mu.Unlock()
		return zero, fmt.Errorf("encode %s: %w", key, err)
	}
	err = s.write(ctx, key, encoded)
	s.mu.Unlock()
	if err != nil {
		return zero, err
	}

	s.notify(key)
	return next, nil
}

// Subscribe registers fn to be called with the key of every change. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(key string)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Watch forwards changes made to the backend by other processes: the cached
// value is dropped and subscribers are notified. It blocks until ctx is done.
// The last writer wins; nothing is merged.
func (s *Store) Watch(ctx context.Context) error {
	w, ok := s.backend.(Watcher)
	if !ok {
		return ErrWatchUnsupported
	}

	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	for key := range changes {
		s.logger.Debug(ctx, "external change", "key", key)
		s.mu.Lock()
		delete(s.cache, key)
		s.mu.Unlock()
		s.notify(key)
	}
	return ctx.Err()
}

// Close closes the backend when it holds resources.
func (s *Store) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// raw must be called with s.mu held.
func (s *Store) raw(ctx context.Context, key string) ([]byte, error) {
	if v, ok := s.cache[key]; ok {
		return v, nil
	}
	v, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if v != nil {
		s.cache[key] = v
	}
	return v, nil
}

// write must be called with s.mu held.
func (s *Store) write(ctx context.Context, key string, raw []byte) error {
	if err := s.backend.Set(ctx, key, raw); err != nil {
		return err
	}
	s.cache[key] = raw
	return nil
}

func (s *Store) notify(key string) {
	s.subMu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
}
