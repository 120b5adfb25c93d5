// Package images stores uploaded note images with a hosted provider.
package images

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dmitrijs2005/notetake/internal/api"
)

// Store uploads and deletes images. Upload returns the public url and the
// provider identifier used later for deletion.
type Store interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (api.UploadResponse, error)
	Delete(ctx context.Context, publicID string) error
}

// AllowList accepts image uploads whose extension is one of a fixed set.
type AllowList struct {
	pattern string
}

// NewAllowList builds a matcher for names like "*.{jpg,png}". Extensions are
// compared case-insensitively and may be given with or without a leading dot.
func NewAllowList(formats []string) AllowList {
	exts := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		if f != "" {
			exts = append(exts, f)
		}
	}
	if len(exts) == 0 {
		return AllowList{}
	}
	return AllowList{pattern: fmt.Sprintf("*.{%s}", strings.Join(exts, ","))}
}

// Allows reports whether name has an allowed extension and contentType is an
// image type.
func (a AllowList) Allows(name, contentType string) bool {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return false
	}
	if a.pattern == "" {
		return false
	}
	ok, err := doublestar.Match(a.pattern, strings.ToLower(path.Base(name)))
	return err == nil && ok
}

// BaseName is the original file name up to its first dot, the part that
// becomes the stored object's public id.
func BaseName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	if name == "/" {
		return ""
	}
	return name
}
