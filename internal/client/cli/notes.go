package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/notetake/internal/client/editor"
	"github.com/dmitrijs2005/notetake/internal/client/export"
	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/client/notes"
	"github.com/dmitrijs2005/notetake/internal/client/store"
	"github.com/dmitrijs2005/notetake/internal/common"
	"github.com/dmitrijs2005/notetake/internal/filex"
	"github.com/spf13/cobra"
)

func newNoteCommand(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Aliases: []string{"notes", "n"},
		Short:   "List, view, edit and export notes",
	}

	var (
		title  string
		labels []string
		asJSON bool
		watch  bool
	)
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l", "ls"},
		Short:   "List notes, optionally filtered by title and tags",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if watch {
				return a.watchNotes(cmd.Context(), title, labels, asJSON)
			}
			return a.listNotes(cmd.Context(), title, labels, asJSON)
		},
	}
	list.Flags().StringVar(&title, "title", "", "case-insensitive title filter")
	list.Flags().StringArrayVar(&labels, "tag", nil, "only notes carrying this tag label (repeatable)")
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	list.Flags().BoolVarP(&watch, "watch", "w", false, "re-render when the store changes (file store)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			n, err := a.getNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printNote(a.out, n, a.tty())
		},
	}

	create := &cobra.Command{
		Use:   "new",
		Short: "Write a new note in the interactive editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().editNote(cmd.Context(), nil)
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a note in the interactive editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			n, err := a.getNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.editNote(cmd.Context(), &n)
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.notes.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.out, "Deleted", args[0])
			return err
		},
	}

	var format, outPath string
	exp := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a note as PDF, HTML or markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().exportNote(cmd.Context(), args[0], format, outPath)
		},
	}
	exp.Flags().StringVarP(&format, "format", "f", "pdf", "pdf, html or md")
	exp.Flags().StringVarP(&outPath, "out", "o", "", "output file (pdf defaults to <title>.pdf, others to stdout)")

	cmd.AddCommand(list, show, create, edit, del, exp)
	return cmd
}

func (a *App) getNote(ctx context.Context, id string) (models.Note, error) {
	n, ok, err := a.notes.Get(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	if !ok {
		return models.Note{}, fmt.Errorf("note %s: %w", id, common.ErrorNotFound)
	}
	return n, nil
}

// filteredNotes resolves tag labels to ids and applies the list filters. An
// unknown label matches nothing.
func (a *App) filteredNotes(ctx context.Context, title string, labels []string) ([]models.Note, error) {
	all, err := a.notes.ListResolved(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(labels))
	for _, label := range labels {
		tag, ok, err := a.tags.FindByLabel(ctx, label)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []models.Note{}, nil
		}
		ids = append(ids, tag.ID)
	}
	return notes.Filter(all, title, ids), nil
}

func (a *App) listNotes(ctx context.Context, title string, labels []string, asJSON bool) error {
	list, err := a.filteredNotes(ctx, title, labels)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(a.out, list)
	}
	return printNotes(a.out, list)
}

// watchNotes prints the list and prints it again after every change to the
// notes or tags, until ctx is cancelled.
func (a *App) watchNotes(ctx context.Context, title string, labels []string, asJSON bool) error {
	changed := make(chan struct{}, 1)
	cancel := a.store.Subscribe(func(key string) {
		if key != store.KeyNotes && key != store.KeyTags {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	watchErr := make(chan error, 1)
	go func() { watchErr <- a.store.Watch(ctx) }()

	if err := a.listNotes(ctx, title, labels, asJSON); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-watchErr:
			if errors.Is(err, store.ErrWatchUnsupported) {
				return fmt.Errorf("--watch needs the file store: %w", err)
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		case <-changed:
			fmt.Fprintln(a.out, "--")
			if err := a.listNotes(ctx, title, labels, asJSON); err != nil {
				a.logger.Warn(ctx, "list refresh failed", "error", err)
			}
		}
	}
}

func (a *App) editNote(ctx context.Context, existing *models.Note) error {
	ed := editor.Open(ctx, a.notes, a.tags, a.images, existing, a.logger)
	sh := &editorShell{ed: ed, tags: a.tags, in: a.in, out: a.out, tty: a.tty()}
	return runEditorREPL(ctx, sh)
}

func (a *App) exportNote(ctx context.Context, id, format, outPath string) error {
	n, err := a.getNote(ctx, id)
	if err != nil {
		return err
	}
	opts := export.Options{Style: a.config.Style}

	var (
		data []byte
		name string
	)
	switch format {
	case "pdf":
		name, data, err = export.PDF(ctx, a.api, n, opts)
	case "html":
		var doc string
		doc, err = export.HTMLDocument(n, opts)
		data = []byte(doc)
	case "md", "markdown":
		var doc string
		doc, err = export.Markdown(n)
		data = []byte(doc)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return err
	}

	if outPath == "" {
		outPath = name
	}
	if outPath == "" || outPath == "-" {
		_, err := a.out.Write(data)
		return err
	}
	if err := filex.WriteFileAtomic(outPath, data, 0o644); err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, "Wrote", outPath)
	return err
}

// writeJSON is shared by the list commands.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
