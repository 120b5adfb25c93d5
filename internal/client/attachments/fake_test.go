package attachments

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"

	"github.com/dmitrijs2005/notetake/internal/client/models"
)

type fakeImages struct {
	mu        sync.Mutex
	next      []models.Image
	uploadErr error
	deleteErr map[string]error
	uploaded  []string
	deleted   []string
}

func (f *fakeImages) Upload(_ context.Context, name string, r io.Reader) (models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.ReadAll(r); err != nil {
		return models.Image{}, err
	}
	if f.uploadErr != nil {
		return models.Image{}, f.uploadErr
	}
	if len(f.next) == 0 {
		return models.Image{}, errors.New("no more images")
	}
	img := f.next[0]
	f.next = f.next[1:]
	f.uploaded = append(f.uploaded, name)
	return img, nil
}

func (f *fakeImages) DeleteImage(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	if err := f.deleteErr[publicID]; err != nil {
		return err
	}
	return nil
}

func (f *fakeImages) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := slices.Clone(f.deleted)
	slices.Sort(out)
	return out
}
