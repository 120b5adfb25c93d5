// Package notes is the note repository. It owns the NOTES key and derives
// the resolved view against the tag registry.
package notes

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/client/store"
	"github.com/google/uuid"
)

// TagLister is the part of the tag registry the repository reads.
type TagLister interface {
	List(ctx context.Context) ([]models.Tag, error)
}

// Repository persists raw notes. Every mutation replaces the stored
// collection wholesale. Missing ids are silent no-ops.
type Repository struct {
	store *store.Store
	tags  TagLister
	newID func() string
}

func NewRepository(s *store.Store, tags TagLister) *Repository {
	return &Repository{store: s, tags: tags, newID: uuid.NewString}
}

// List returns the stored notes in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.RawNote, error) {
	notes := []models.RawNote{}
	if err := r.store.Load(ctx, store.KeyNotes, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Create appends a note with a fresh id.
func (r *Repository) Create(ctx context.Context, data models.NoteData) (models.RawNote, error) {
	note := models.RawNote{
		ID:       r.newID(),
		Title:    data.Title,
		Markdown: data.Markdown,
		TagIDs:   data.TagIDs(),
		Images:   images(data.Images),
	}

	_, err := store.Update(ctx, r.store, store.KeyNotes, func(cur []models.RawNote) []models.RawNote {
		return append(slices.Clone(cur), note)
	})
	if err != nil {
		return models.RawNote{}, err
	}
	return note, nil
}

// Update replaces title, body, tags and images of the note with id, keeping
// its id and position.
func (r *Repository) Update(ctx context.Context, id string, data models.NoteData) error {
	_, err := store.Update(ctx, r.store, store.KeyNotes, func(cur []models.RawNote) []models.RawNote {
		next := slices.Clone(cur)
		for i := range next {
			if next[i].ID == id {
				next[i] = models.RawNote{
					ID:       id,
					Title:    data.Title,
					Markdown: data.Markdown,
					TagIDs:   data.TagIDs(),
					Images:   images(data.Images),
				}
			}
		}
		return nonNil(next)
	})
	return err
}

// Delete removes the note with id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := store.Update(ctx, r.store, store.KeyNotes, func(cur []models.RawNote) []models.RawNote {
		return nonNil(slices.DeleteFunc(slices.Clone(cur), func(n models.RawNote) bool { return n.ID == id }))
	})
	return err
}

// ListResolved derives the view form of every note. It has no side effects.
func (r *Repository) ListResolved(ctx context.Context) ([]models.Note, error) {
	raw, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := r.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	return models.Resolve(raw, tags), nil
}

// Get returns the resolved note with id.
func (r *Repository) Get(ctx context.Context, id string) (models.Note, bool, error) {
	all, err := r.ListResolved(ctx)
	if err != nil {
		return models.Note{}, false, err
	}
	for _, n := range all {
		if n.ID == id {
			return n, true, nil
		}
	}
	return models.Note{}, false, nil
}

// Filter keeps notes whose title contains title (case-insensitive) and that
// carry every tag in tagIDs. Empty criteria match everything.
func Filter(notes []models.Note, title string, tagIDs []string) []models.Note {
	needle := strings.ToLower(strings.TrimSpace(title))
	out := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if needle != "" && !strings.Contains(strings.ToLower(n.Title), needle) {
			continue
		}
		if !slices.ContainsFunc(tagIDs, func(id string) bool { return !n.HasTag(id) }) {
			out = append(out, n)
		}
	}
	return out
}

func images(in []models.Image) []models.Image {
	out := make([]models.Image, len(in))
	copy(out, in)
	return out
}

func nonNil(notes []models.RawNote) []models.RawNote {
	if notes == nil {
		return []models.RawNote{}
	}
	return notes
}
