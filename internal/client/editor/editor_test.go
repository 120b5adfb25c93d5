package editor

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/notetake/internal/client/attachments"
	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/client/notes"
	"github.com/dmitrijs2005/notetake/internal/client/store"
	"github.com/dmitrijs2005/notetake/internal/client/tags"
	"github.com/dmitrijs2005/notetake/internal/common"
	"github.com/dmitrijs2005/notetake/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	mu      sync.Mutex
	next    []models.Image
	deleted []string
}

func (f *fakeImages) Upload(_ context.Context, _ string, _ io.Reader) (models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.next) == 0 {
		return models.Image{}, errors.New("upload failed")
	}
	img := f.next[0]
	f.next = f.next[1:]
	return img, nil
}

func (f *fakeImages) DeleteImage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

type fixture struct {
	store  *store.Store
	tags   *tags.Registry
	notes  *notes.Repository
	mgr    *attachments.Manager
	images *fakeImages
}

// pendingFailBackend fails writes of the pending-upload list while failing
// is set.
type pendingFailBackend struct {
	*store.MemoryBackend
	failing bool
}

func (b *pendingFailBackend) Set(ctx context.Context, key string, value []byte) error {
	if b.failing && key == store.KeyPendingUploads {
		return errors.New("disk full")
	}
	return b.MemoryBackend.Set(ctx, key, value)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, store.NewMemoryBackend())
}

func newFixtureOn(t *testing.T, b store.Backend) *fixture {
	t.Helper()
	s := store.New(b, logging.Nop{})
	reg := tags.NewRegistry(s)
	images := &fakeImages{}
	return &fixture{
		store:  s,
		tags:   reg,
		notes:  notes.NewRepository(s, reg),
		mgr:    attachments.NewManager(s, images, logging.Nop{}),
		images: images,
	}
}

func (f *fixture) open(ctx context.Context, existing *models.Note) *Editor {
	return Open(ctx, f.notes, f.tags, f.mgr, existing, logging.Nop{})
}

func TestOpen_CleansUpAbandonedUploads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, store.KeyPendingUploads, []string{"p1", "p2"}))

	e := f.open(ctx, nil)

	assert.True(t, e.IsNew())
	assert.ElementsMatch(t, []string{"p1", "p2"}, f.images.deleted)
	pending, err := f.mgr.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSubmit_CreatesNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e := f.open(ctx, nil)
	e.SetTitle("A")
	e.SetMarkdown("hello")

	id, err := e.Submit(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, e.NoteID())

	all, err := f.notes.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.RawNote{ID: id, Title: "A", Markdown: "hello", TagIDs: []string{}, Images: []models.Image{}}, all[0])
}

func TestSubmit_ValidatesRequiredFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e := f.open(ctx, nil)
	_, err := e.Submit(ctx)
	require.ErrorIs(t, err, common.ErrTitleRequired)

	e.SetTitle("A")
	e.SetMarkdown("  \n")
	_, err = e.Submit(ctx)
	require.ErrorIs(t, err, common.ErrBodyRequired)

	all, err := f.notes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestInlineTagCreation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e := f.open(ctx, nil)
	tag, err := e.CreateTag(ctx, "ideas")
	require.NoError(t, err)

	again, err := e.SelectLabel(ctx, "ideas")
	require.NoError(t, err)
	assert.Equal(t, tag, again)

	other, err := e.SelectLabel(ctx, "later")
	require.NoError(t, err)

	registered, err := f.tags.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{tag, other}, registered)
	assert.Equal(t, []models.Tag{tag, other}, e.SelectedTags())

	e.Unselect(tag.ID)
	assert.Equal(t, []models.Tag{other}, e.SelectedTags())
}

func TestSubmit_ReconcilesImagesOnUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.images.next = []models.Image{{URL: "u1", PublicID: "p1"}, {URL: "u2", PublicID: "p2"}}

	created, err := f.notes.Create(ctx, models.NoteData{Title: "A", Markdown: "body"})
	require.NoError(t, err)
	existing, ok, err := f.notes.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)

	e := f.open(ctx, &existing)
	assert.Equal(t, "A", e.Title())
	_, err = e.Attach(ctx, "one", strings.NewReader("1"), nil)
	require.NoError(t, err)
	_, err = e.Attach(ctx, "two", strings.NewReader("2"), nil)
	require.NoError(t, err)

	e.SetMarkdown(strings.Replace(e.Markdown(), "![one](u1)", "", 1))
	dirty, err := e.HasUnsavedWork(ctx)
	require.NoError(t, err)
	assert.True(t, dirty)

	id, err := e.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, id)

	saved, _, err := f.notes.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []models.Image{{URL: "u2", PublicID: "p2"}}, saved.Images)
	assert.Contains(t, saved.Markdown, "![two](u2)")
	assert.Equal(t, []string{"p1"}, f.images.deleted)

	dirty, err = e.HasUnsavedWork(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestSubmit_CommitFailureIsReturnedAndRetried(t *testing.T) {
	backend := &pendingFailBackend{MemoryBackend: store.NewMemoryBackend()}
	f := newFixtureOn(t, backend)
	ctx := context.Background()
	f.images.next = []models.Image{{URL: "u1", PublicID: "p1"}}

	e := f.open(ctx, nil)
	e.SetTitle("Pics")
	_, err := e.Attach(ctx, "one", strings.NewReader("1"), nil)
	require.NoError(t, err)

	backend.failing = true
	id, err := e.Submit(ctx)
	require.ErrorContains(t, err, "disk full")
	require.NotEmpty(t, id)

	saved, ok, err := f.notes.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []models.Image{{URL: "u1", PublicID: "p1"}}, saved.Images)

	dirty, err := e.HasUnsavedWork(ctx)
	require.NoError(t, err)
	assert.True(t, dirty, "the upload is still pending")

	backend.failing = false
	again, err := e.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	all, err := f.notes.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	pending, err := f.mgr.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// a later mount must not delete the saved image
	f.open(ctx, &saved)
	assert.Empty(t, f.images.deleted)
}

func TestAppendLine(t *testing.T) {
	f := newFixture(t)
	e := f.open(context.Background(), nil)

	e.AppendLine("one")
	e.AppendLine("two")
	assert.Equal(t, "one\ntwo", e.Markdown())
}
