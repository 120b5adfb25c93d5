package attachments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/client/store"
	"github.com/dmitrijs2005/notetake/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, images *fakeImages) (*Manager, *store.Store) {
	t.Helper()
	s := store.New(store.NewMemoryBackend(), logging.Nop{})
	return NewManager(s, images, logging.Nop{}), s
}

func TestAttach_AppendsWithoutSelection(t *testing.T) {
	images := &fakeImages{next: []models.Image{{URL: "u1", PublicID: "p1"}}}
	m, _ := newManager(t, images)
	ctx := context.Background()

	s := m.NewSession("hello", nil)
	img, err := s.Attach(ctx, "f", strings.NewReader("png"), nil)
	require.NoError(t, err)

	assert.Equal(t, models.Image{URL: "u1", PublicID: "p1"}, img)
	assert.Equal(t, []models.Image{img}, s.Images())
	assert.Equal(t, "hello\n![f](u1)", s.Markdown())

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, pending)
}

func TestAttach_ReplacesSelection(t *testing.T) {
	images := &fakeImages{next: []models.Image{{URL: "u1", PublicID: "p1"}}}
	m, _ := newManager(t, images)

	s := m.NewSession("abcXYZdef", nil)
	_, err := s.Attach(context.Background(), "pic.png", strings.NewReader("x"), &Selection{Start: 3, End: 6})
	require.NoError(t, err)

	assert.Equal(t, "abc\n\n![pic.png](u1)\n\ndef", s.Markdown())
}

func TestAttach_CaretAndOutOfRangeSelection(t *testing.T) {
	images := &fakeImages{next: []models.Image{{URL: "u1", PublicID: "p1"}, {URL: "u2", PublicID: "p2"}}}
	m, _ := newManager(t, images)

	s := m.NewSession("ab", nil)
	_, err := s.Attach(context.Background(), "a", strings.NewReader("x"), &Selection{Start: 1, End: 1})
	require.NoError(t, err)
	assert.Equal(t, "a\n\n![a](u1)\n\nb", s.Markdown())

	s = m.NewSession("ab", nil)
	_, err = s.Attach(context.Background(), "b", strings.NewReader("x"), &Selection{Start: 10, End: -1})
	require.NoError(t, err)
	assert.Equal(t, "\n\n![b](u2)\n\n", s.Markdown())
}

func TestAttach_SelectionInsideMultibyteRune(t *testing.T) {
	images := &fakeImages{next: []models.Image{{URL: "u1", PublicID: "p1"}, {URL: "u2", PublicID: "p2"}}}
	m, _ := newManager(t, images)

	// byte 2 is the second byte of "é"
	s := m.NewSession("héllo", nil)
	_, err := s.Attach(context.Background(), "f", strings.NewReader("x"), &Selection{Start: 2, End: 2})
	require.NoError(t, err)
	assert.Equal(t, "h\n\n![f](u1)\n\néllo", s.Markdown())
	assert.True(t, utf8.ValidString(s.Markdown()))

	s = m.NewSession("aé€b", nil)
	_, err = s.Attach(context.Background(), "g", strings.NewReader("x"), &Selection{Start: 2, End: 5})
	require.NoError(t, err)
	assert.Equal(t, "a\n\n![g](u2)\n\n€b", s.Markdown())
	assert.True(t, utf8.ValidString(s.Markdown()))
}

func TestAttach_UploadFailureLeavesDraftUnchanged(t *testing.T) {
	images := &fakeImages{uploadErr: errors.New("network down")}
	m, _ := newManager(t, images)
	ctx := context.Background()

	s := m.NewSession("hello", []models.Image{{URL: "u0", PublicID: "p0"}})
	_, err := s.Attach(ctx, "f", strings.NewReader("x"), nil)
	require.ErrorContains(t, err, "network down")

	assert.Equal(t, "hello", s.Markdown())
	assert.Equal(t, []models.Image{{URL: "u0", PublicID: "p0"}}, s.Images())
	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDetach_BeforeSave(t *testing.T) {
	images := &fakeImages{next: []models.Image{{URL: "u1", PublicID: "p1"}}}
	m, _ := newManager(t, images)
	ctx := context.Background()

	s := m.NewSession("", nil)
	_, err := s.Attach(ctx, "f", strings.NewReader("x"), nil)
	require.NoError(t, err)

	s.Detach(ctx, "p1")

	assert.Empty(t, s.Images())
	assert.NotContains(t, s.Markdown(), "u1")
	assert.Equal(t, []string{"p1"}, images.Deleted())

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDetach_RemovesOnlyMatchingReference(t *testing.T) {
	images := &fakeImages{}
	m, _ := newManager(t, images)

	md := "intro\n![cat](https://cdn/x/cat.png)\n![cat2](https://cdn/x/cat.png2)\n![other](https://cdn/x/cat.pngx)\ntail"
	s := m.NewSession(md, []models.Image{
		{URL: "https://cdn/x/cat.png", PublicID: "cat"},
		{URL: "https://cdn/x/cat.png2", PublicID: "cat2"},
	})

	s.Detach(context.Background(), "cat")

	assert.Equal(t, "intro\n![cat2](https://cdn/x/cat.png2)\n![other](https://cdn/x/cat.pngx)\ntail", s.Markdown())
	assert.Equal(t, []models.Image{{URL: "https://cdn/x/cat.png2", PublicID: "cat2"}}, s.Images())
}

func TestDetach_DeleteFailureKeepsPendingAndStillStrips(t *testing.T) {
	images := &fakeImages{
		next:      []models.Image{{URL: "u1", PublicID: "p1"}},
		deleteErr: map[string]error{"p1": errors.New("boom")},
	}
	m, _ := newManager(t, images)
	ctx := context.Background()

	s := m.NewSession("", nil)
	_, err := s.Attach(ctx, "f", strings.NewReader("x"), nil)
	require.NoError(t, err)

	s.Detach(ctx, "p1")
	s.Detach(ctx, "unknown")

	assert.Empty(t, s.Images())
	assert.NotContains(t, s.Markdown(), "u1")
	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, pending)
	assert.Equal(t, []string{"p1"}, images.Deleted())
}

func TestStripReference_AnyAltAndRegexMetaInURL(t *testing.T) {
	md := "a ![x](http://h/a+b(1).png) b\n![y](http://h/a+b(1).png)\nc"
	assert.Equal(t, "a  b\nc", StripReference(md, "http://h/a+b(1).png"))
}

func TestReconcile_PartitionsAndDeletesUnreferenced(t *testing.T) {
	images := &fakeImages{deleteErr: map[string]error{"p3": errors.New("fails")}}
	m, _ := newManager(t, images)
	ctx := context.Background()

	s := m.NewSession("", []models.Image{
		{URL: "u1", PublicID: "p1"},
		{URL: "u2", PublicID: "p2"},
		{URL: "u3", PublicID: "p3"},
	})
	s.SetMarkdown("see ![x](u2)")

	kept := s.Reconcile(ctx)

	assert.Equal(t, []models.Image{{URL: "u2", PublicID: "p2"}}, kept)
	assert.Equal(t, kept, s.Images())
	assert.Equal(t, []string{"p1", "p3"}, images.Deleted())
}

func TestReconcile_ManualTextRemoval(t *testing.T) {
	images := &fakeImages{}
	m, _ := newManager(t, images)

	s := m.NewSession("![x](u1)", []models.Image{{URL: "u1", PublicID: "p1"}})
	s.SetMarkdown("")

	assert.Empty(t, s.Reconcile(context.Background()))
	assert.Equal(t, []string{"p1"}, images.Deleted())
}

func TestCommitAndUnsavedWork(t *testing.T) {
	images := &fakeImages{next: []models.Image{{URL: "u1", PublicID: "p1"}}}
	m, _ := newManager(t, images)
	ctx := context.Background()

	s := m.NewSession("saved", nil)
	dirty, err := s.HasUnsavedWork(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)

	s.SetMarkdown("changed")
	dirty, err = s.HasUnsavedWork(ctx)
	require.NoError(t, err)
	assert.True(t, dirty)

	s.SetMarkdown("saved")
	_, err = s.Attach(ctx, "f", strings.NewReader("x"), nil)
	require.NoError(t, err)
	s.SetMarkdown("saved")
	dirty, err = s.HasUnsavedWork(ctx)
	require.NoError(t, err)
	assert.True(t, dirty, "pending uploads count as unsaved work")

	require.NoError(t, s.Commit(ctx))
	dirty, err = s.HasUnsavedWork(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)
}
