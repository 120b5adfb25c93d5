package attachments

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/client/store"
)

// Selection is a byte range of the draft, the caret when Start == End.
// Offsets inside a multi-byte character snap back to its first byte.
type Selection struct {
	Start int
	End   int
}

// Session is the working state of one edit: the draft markdown and the
// images attached to it. It is not safe for concurrent use.
type Session struct {
	m        *Manager
	saved    string
	markdown string
	images   []models.Image
}

func (s *Session) Markdown() string { return s.markdown }

func (s *Session) SetMarkdown(md string) { s.markdown = md }

func (s *Session) Images() []models.Image { return slices.Clone(s.images) }

// Snippet is the markdown image reference inserted for an upload.
func Snippet(alt, url string) string {
	return fmt.Sprintf("![%s](%s)", alt, url)
}

// Attach uploads r and, on success, records the image and inserts its
// reference into the draft. With a selection the snippet replaces it,
// padded by blank lines; without one it is appended on a new line. On
// upload failure the draft is left unchanged and the error returned.
func (s *Session) Attach(ctx context.Context, name string, r io.Reader, sel *Selection) (models.Image, error) {
	img, err := s.m.images.Upload(ctx, name, r)
	if err != nil {
		return models.Image{}, fmt.Errorf("upload %s: %w", name, err)
	}

	s.images = append(s.images, img)
	if err := s.m.track(ctx, img.PublicID); err != nil {
		s.m.logger.Warn(ctx, "failed to record pending upload", "public_id", img.PublicID, "error", err)
	}

	snippet := Snippet(name, img.URL)
	if sel == nil {
		s.markdown = s.markdown + "\n" + snippet
		return img, nil
	}

	start, end := clamp(sel.Start, len(s.markdown)), clamp(sel.End, len(s.markdown))
	if end < start {
		start, end = end, start
	}
	start, end = runeStart(s.markdown, start), runeStart(s.markdown, end)
	s.markdown = s.markdown[:start] + "\n\n" + snippet + "\n\n" + s.markdown[end:]
	return img, nil
}

// Detach removes the image with publicID from the working list, strips every
// reference to its url from the draft and deletes it remotely. A failed
// delete is logged; the image is gone from the draft either way and stays in
// the pending list for the next cleanup.
func (s *Session) Detach(ctx context.Context, publicID string) {
	idx := slices.IndexFunc(s.images, func(img models.Image) bool { return img.PublicID == publicID })
	if idx < 0 {
		return
	}
	img := s.images[idx]
	s.images = slices.Delete(s.images, idx, idx+1)
	s.markdown = StripReference(s.markdown, img.URL)

	if err := s.m.images.DeleteImage(ctx, publicID); err != nil {
		s.m.logger.Warn(ctx, "failed to delete image", "public_id", publicID, "error", err)
		return
	}
	if err := s.m.untrack(ctx, publicID); err != nil {
		s.m.logger.Warn(ctx, "failed to update pending uploads", "public_id", publicID, "error", err)
	}
}

// StripReference removes every `![alt](url)` for exactly url, together with
// one trailing newline.
func StripReference(md, url string) string {
	re := regexp.MustCompile(`!\[[^\]]*\]\(` + regexp.QuoteMeta(url) + `\)\n?`)
	return re.ReplaceAllString(md, "")
}

// Reconcile keeps the images whose url occurs in the draft and deletes the
// rest concurrently, waiting for every delete to settle. Failures are logged
// and do not affect the result.
func (s *Session) Reconcile(ctx context.Context) []models.Image {
	referenced := make([]models.Image, 0, len(s.images))
	var orphans []string
	for _, img := range s.images {
		if strings.Contains(s.markdown, img.URL) {
			referenced = append(referenced, img)
			continue
		}
		orphans = append(orphans, img.PublicID)
	}

	if len(orphans) > 0 {
		deleted := s.m.deleteAll(ctx, orphans)
		s.m.logger.Debug(ctx, "deleted unreferenced images", "unreferenced", len(orphans), "deleted", len(deleted))
	}

	s.images = referenced
	return slices.Clone(referenced)
}

// Commit marks the draft as saved and clears the pending list.
func (s *Session) Commit(ctx context.Context) error {
	s.saved = s.markdown
	return s.m.store.Save(ctx, store.KeyPendingUploads, []string{})
}

// HasUnsavedWork reports whether leaving now could lose work: the draft
// differs from the saved text or uploads are still pending. Advisory only.
func (s *Session) HasUnsavedWork(ctx context.Context) (bool, error) {
	if s.markdown != s.saved {
		return true, nil
	}
	pending, err := s.m.Pending(ctx)
	if err != nil {
		return false, err
	}
	return len(pending) > 0, nil
}

// runeStart moves i back to the first byte of the character it falls in.
func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}
