package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/notetake/internal/filex"
	"github.com/fsnotify/fsnotify"
)

const fileExt = ".json"

// FileBackend stores one file per key inside a directory. Writes are atomic
// and Watch reports files changed by other processes.
type FileBackend struct {
	dir string

	mu      sync.Mutex
	written map[string][]byte
}

// NewFileBackend creates dir when missing.
func NewFileBackend(dir string) (*FileBackend, error) {
	abs, err := filex.EnsureSubdDir(dir)
	if err != nil {
		return nil, err
	}
	return &FileBackend{dir: abs, written: make(map[string][]byte)}, nil
}

// Dir returns the absolute directory the backend writes to.
func (b *FileBackend) Dir() string { return b.dir }

func (b *FileBackend) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(b.dir, key+fileExt), nil
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	p, err := b.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (b *FileBackend) Set(_ context.Context, key string, value []byte) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := filex.WriteFileAtomic(p, value, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	b.written[key] = clone(value)
	return nil
}

func (b *FileBackend) Delete(_ context.Context, key string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	b.written[key] = nil
	return nil
}

func (b *FileBackend) List(ctx context.Context) (map[string][]byte, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", b.dir, err)
	}

	out := make(map[string][]byte)
	for _, e := range entries {
		key, ok := keyOf(e.Name())
		if !ok || e.IsDir() {
			continue
		}
		v, err := b.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out[key] = v
		}
	}
	return out, nil
}

func (b *FileBackend) Clear(ctx context.Context) error {
	keys, err := b.List(ctx)
	if err != nil {
		return err
	}
	for k := range keys {
		if err := b.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// Watch reports keys whose files were changed on disk by someone else. Our
// own writes are recognised by content and suppressed.
func (b *FileBackend) Watch(ctx context.Context) (<-chan string, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(b.dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", b.dir, err)
	}

	out := make(chan string, 16)
	go func() {
		defer close(out)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				key, ok := keyOf(filepath.Base(ev.Name))
				if !ok || b.isOwnWrite(key) {
					continue
				}
				select {
				case out <- key:
				case <-ctx.Done():
					return
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return out, nil
}

func (b *FileBackend) isOwnWrite(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	last, ok := b.written[key]
	if !ok {
		return false
	}
	current, err := b.Get(context.Background(), key)
	if err != nil {
		return false
	}
	return bytes.Equal(current, last)
}

func keyOf(name string) (string, bool) {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	return strings.TrimSuffix(name, fileExt), true
}
