package store

import (
	"context"
	"errors"
)

// Well-known keys of the persisted client state.
const (
	KeyNotes          = "NOTES"
	KeyTags           = "TAGS"
	KeyPendingUploads = "tempUploads"
)

// ErrWatchUnsupported is returned by Store.Watch when the backend cannot
// report external changes.
var ErrWatchUnsupported = errors.New("store backend does not support watching")

// Backend is a durable map from string keys to raw bytes.
// Get of a missing key returns (nil, nil).
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Watcher is implemented by backends that observe writes made by other
// processes. The channel yields changed keys and closes when ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// Replacer is implemented by backends that can swap their whole content
// atomically. Store.Restore falls back to Clear and Set otherwise.
type Replacer interface {
	Replace(ctx context.Context, values map[string][]byte) error
}
