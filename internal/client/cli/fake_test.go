package cli

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dmitrijs2005/notetake/internal/client/client"
	"github.com/dmitrijs2005/notetake/internal/client/config"
	"github.com/dmitrijs2005/notetake/internal/client/models"
)

type fakeAPI struct {
	mu       sync.Mutex
	next     []models.Image
	deleted  []string
	html     string
	pdf      []byte
	reply    string
	pingErr  error
	closed   bool
	uploaded []string
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) Upload(_ context.Context, name string, r io.Reader) (models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.ReadAll(r); err != nil {
		return models.Image{}, err
	}
	if len(f.next) == 0 {
		return models.Image{}, errors.New("upload failed")
	}
	img := f.next[0]
	f.next = f.next[1:]
	f.uploaded = append(f.uploaded, name)
	return img, nil
}

func (f *fakeAPI) DeleteImage(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return nil
}

func (f *fakeAPI) ExportPDF(_ context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.html = html
	return f.pdf, nil
}

func (f *fakeAPI) Chat(context.Context, []models.ChatMessage, []models.Note) (string, error) {
	return f.reply, nil
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) Close() error {
	f.closed = true
	return nil
}

// useFakeAPI routes every App built during the test to f.
func useFakeAPI(t interface{ Cleanup(func()) }, f *fakeAPI) {
	orig := newAPIClient
	newAPIClient = func(*config.Config) (client.Client, error) { return f, nil }
	t.Cleanup(func() { newAPIClient = orig })
}
