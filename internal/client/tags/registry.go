// Package tags is the tag registry: the persisted set of {id, label} tags
// notes refer to by id.
package tags

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/client/store"
	"github.com/google/uuid"
)

// Registry owns the TAGS key of the store. Errors are returned only for
// storage failures; missing ids are no-ops. Deleting a tag never touches
// notes.
type Registry struct {
	store *store.Store
}

func NewRegistry(s *store.Store) *Registry {
	return &Registry{store: s}
}

// List returns the tags in registry order.
func (r *Registry) List(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.store.Load(ctx, store.KeyTags, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Add appends tag as given. Labels are not checked for uniqueness.
func (r *Registry) Add(ctx context.Context, tag models.Tag) error {
	_, err := store.Update(ctx, r.store, store.KeyTags, func(cur []models.Tag) []models.Tag {
		next := slices.Clone(cur)
		return append(next, tag)
	})
	return err
}

// New mints a fresh id for label and adds the tag.
func (r *Registry) New(ctx context.Context, label string) (models.Tag, error) {
	tag := models.Tag{ID: uuid.NewString(), Label: label}
	if err := r.Add(ctx, tag); err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

// Update replaces the label of the tag with the given id.
func (r *Registry) Update(ctx context.Context, id, label string) error {
	_, err := store.Update(ctx, r.store, store.KeyTags, func(cur []models.Tag) []models.Tag {
		next := slices.Clone(cur)
		for i := range next {
			if next[i].ID == id {
				next[i].Label = label
			}
		}
		return nonNil(next)
	})
	return err
}

// Remove deletes the tag with the given id.
func (r *Registry) Remove(ctx context.Context, id string) error {
	_, err := store.Update(ctx, r.store, store.KeyTags, func(cur []models.Tag) []models.Tag {
		return nonNil(slices.DeleteFunc(slices.Clone(cur), func(t models.Tag) bool { return t.ID == id }))
	})
	return err
}

// FindByLabel returns the first tag with the given label.
func (r *Registry) FindByLabel(ctx context.Context, label string) (models.Tag, bool, error) {
	all, err := r.List(ctx)
	if err != nil {
		return models.Tag{}, false, err
	}
	for _, t := range all {
		if t.Label == label {
			return t, true, nil
		}
	}
	return models.Tag{}, false, nil
}

func nonNil(tags []models.Tag) []models.Tag {
	if tags == nil {
		return []models.Tag{}
	}
	return tags
}
