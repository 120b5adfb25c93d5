// Package editor is the note editor surface: a local draft of one note that
// delegates persistence to the note repository and image bookkeeping to an
// attachment session.
package editor

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dmitrijs2005/notetake/internal/client/attachments"
	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/common"
	"github.com/dmitrijs2005/notetake/internal/logging"
)

// NoteWriter is the part of the note repository the editor saves through.
type NoteWriter interface {
	Create(ctx context.Context, data models.NoteData) (models.RawNote, error)
	Update(ctx context.Context, id string, data models.NoteData) error
}

// TagCreator is the part of the tag registry used for inline creation.
type TagCreator interface {
	List(ctx context.Context) ([]models.Tag, error)
	New(ctx context.Context, label string) (models.Tag, error)
}

type Editor struct {
	notes   NoteWriter
	tags    TagCreator
	session *attachments.Session
	logger  logging.Logger

	noteID   string
	title    string
	selected []models.Tag
}

// Open mounts an editor for existing, or for a new note when existing is
// nil. Uploads left behind by an abandoned session are cleaned up first;
// a failure there is logged and does not prevent editing.
func Open(ctx context.Context, notes NoteWriter, tags TagCreator, mgr *attachments.Manager, existing *models.Note, l logging.Logger) *Editor {
	l = l.With("module", "editor")
	if err := mgr.CleanupPending(ctx); err != nil {
		l.Warn(ctx, "pending upload cleanup failed", "error", err)
	}

	e := &Editor{notes: notes, tags: tags, logger: l}
	if existing == nil {
		e.session = mgr.NewSession("", nil)
		return e
	}

	e.noteID = existing.ID
	e.title = existing.Title
	e.selected = slices.Clone(existing.Tags)
	e.session = mgr.NewSession(existing.Markdown, existing.Images)
	return e
}

// IsNew reports whether submitting creates a note.
func (e *Editor) IsNew() bool { return e.noteID == "" }

func (e *Editor) NoteID() string { return e.noteID }

func (e *Editor) Title() string { return e.title }

func (e *Editor) SetTitle(title string) { e.title = title }

func (e *Editor) Markdown() string { return e.session.Markdown() }

func (e *Editor) SetMarkdown(md string) { e.session.SetMarkdown(md) }

// AppendLine adds text on a new line at the end of the draft.
func (e *Editor) AppendLine(text string) {
	md := e.session.Markdown()
	if md != "" {
		md += "\n"
	}
	e.session.SetMarkdown(md + text)
}

func (e *Editor) Images() []models.Image { return e.session.Images() }

func (e *Editor) SelectedTags() []models.Tag { return slices.Clone(e.selected) }

// SelectTag adds tag to the selection unless it is already selected.
func (e *Editor) SelectTag(tag models.Tag) {
	if slices.ContainsFunc(e.selected, func(t models.Tag) bool { return t.ID == tag.ID }) {
		return
	}
	e.selected = append(e.selected, tag)
}

func (e *Editor) Unselect(id string) {
	e.selected = slices.DeleteFunc(e.selected, func(t models.Tag) bool { return t.ID == id })
}

// CreateTag registers a new tag and selects it.
func (e *Editor) CreateTag(ctx context.Context, label string) (models.Tag, error) {
	tag, err := e.tags.New(ctx, label)
	if err != nil {
		return models.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	e.SelectTag(tag)
	return tag, nil
}

// SelectLabel selects the first registry tag with label, creating one when
// none exists.
func (e *Editor) SelectLabel(ctx context.Context, label string) (models.Tag, error) {
	all, err := e.tags.List(ctx)
	if err != nil {
		return models.Tag{}, err
	}
	for _, t := range all {
		if t.Label == label {
			e.SelectTag(t)
			return t, nil
		}
	}
	return e.CreateTag(ctx, label)
}

func (e *Editor) Attach(ctx context.Context, name string, r io.Reader, sel *attachments.Selection) (models.Image, error) {
	return e.session.Attach(ctx, name, r, sel)
}

func (e *Editor) Detach(ctx context.Context, publicID string) {
	e.session.Detach(ctx, publicID)
}

// HasUnsavedWork reports whether the body differs from the saved one or
// uploads are still pending. Title and tag edits are not considered.
func (e *Editor) HasUnsavedWork(ctx context.Context) (bool, error) {
	return e.session.HasUnsavedWork(ctx)
}

// Validate checks the required form fields.
func (e *Editor) Validate() error {
	if strings.TrimSpace(e.title) == "" {
		return common.ErrTitleRequired
	}
	if strings.TrimSpace(e.session.Markdown()) == "" {
		return common.ErrBodyRequired
	}
	return nil
}

// Submit reconciles images, writes the note and commits the session. It
// returns the id of the saved note. On validation failure nothing is
// written and the draft stays as it is. When the note was written but the
// session could not be committed, Submit returns the id together with the
// error; submitting again updates the same note and retries the commit.
func (e *Editor) Submit(ctx context.Context) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	images := e.session.Reconcile(ctx)
	data := models.NoteData{
		Title:    e.title,
		Markdown: e.session.Markdown(),
		Tags:     slices.Clone(e.selected),
		Images:   images,
	}

	if e.IsNew() {
		note, err := e.notes.Create(ctx, data)
		if err != nil {
			return "", fmt.Errorf("create note: %w", err)
		}
		e.noteID = note.ID
	} else if err := e.notes.Update(ctx, e.noteID, data); err != nil {
		return "", fmt.Errorf("update note: %w", err)
	}

	// the note is written; until the pending list is cleared the next mount
	// would delete images it references, so the caller has to save again
	if err := e.session.Commit(ctx); err != nil {
		e.logger.Warn(ctx, "failed to clear pending uploads", "note_id", e.noteID, "error", err)
		return e.noteID, fmt.Errorf("clear pending uploads: %w", err)
	}
	return e.noteID, nil
}
