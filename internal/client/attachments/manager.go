// Package attachments keeps the images uploaded while editing a note in sync
// with the markdown that references them. Uploads happen immediately, every
// uploaded public id is remembered in a persisted pending list until the
// note is saved, and unreferenced images are deleted at save time and when
// an abandoned session is found on the next mount.
package attachments

import (
	"context"
	"io"
	"slices"

	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/client/store"
	"github.com/dmitrijs2005/notetake/internal/logging"
	"golang.org/x/sync/errgroup"
)

// ImageService is the upload/delete collaborator.
type ImageService interface {
	Upload(ctx context.Context, name string, r io.Reader) (models.Image, error)
	DeleteImage(ctx context.Context, publicID string) error
}

type Manager struct {
	store  *store.Store
	images ImageService
	logger logging.Logger
}

func NewManager(s *store.Store, images ImageService, l logging.Logger) *Manager {
	return &Manager{store: s, images: images, logger: l.With("module", "attachments")}
}

// Pending returns the public ids uploaded by sessions that were not saved.
func (m *Manager) Pending(ctx context.Context) ([]string, error) {
	ids := []string{}
	if err := m.store.Load(ctx, store.KeyPendingUploads, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// CleanupPending deletes every pending upload concurrently, waits for all of
// them to settle and clears the list. Individual delete failures are logged
// and the id is dropped anyway.
func (m *Manager) CleanupPending(ctx context.Context) error {
	ids, err := m.Pending(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	deleted := m.deleteAll(ctx, ids)
	m.logger.Info(ctx, "cleaned up abandoned uploads", "pending", len(ids), "deleted", len(deleted))

	return m.store.Save(ctx, store.KeyPendingUploads, []string{})
}

// NewSession starts a working draft seeded from the saved markdown and the
// note's current images.
func (m *Manager) NewSession(savedMarkdown string, images []models.Image) *Session {
	return &Session{
		m:        m,
		saved:    savedMarkdown,
		markdown: savedMarkdown,
		images:   slices.Clone(images),
	}
}

// deleteAll fans the deletes out and waits for every one of them.
func (m *Manager) deleteAll(ctx context.Context, ids []string) []string {
	var g errgroup.Group
	ok := make([]bool, len(ids))
	for i, id := range ids {
		g.Go(func() error {
			if err := m.images.DeleteImage(ctx, id); err != nil {
				m.logger.Warn(ctx, "failed to delete image", "public_id", id, "error", err)
				return nil
			}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	deleted := make([]string, 0, len(ids))
	for i, id := range ids {
		if ok[i] {
			deleted = append(deleted, id)
		}
	}
	return deleted
}

func (m *Manager) track(ctx context.Context, publicID string) error {
	_, err := store.Update(ctx, m.store, store.KeyPendingUploads, func(cur []string) []string {
		return append(slices.Clone(cur), publicID)
	})
	return err
}

func (m *Manager) untrack(ctx context.Context, publicIDs ...string) error {
	_, err := store.Update(ctx, m.store, store.KeyPendingUploads, func(cur []string) []string {
		next := slices.DeleteFunc(slices.Clone(cur), func(id string) bool {
			return slices.Contains(publicIDs, id)
		})
		if next == nil {
			return []string{}
		}
		return next
	})
	return err
}
