package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/notetake/internal/client/models"
)

// PDFRenderer is the export-pdf collaborator.
type PDFRenderer interface {
	ExportPDF(ctx context.Context, html string) ([]byte, error)
}

// FileName is the download name for a note's PDF.
func FileName(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "note"
	}
	title = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, title)
	return title + ".pdf"
}

// PDF renders note through the collaborator and returns the suggested file
// name with the document bytes.
func PDF(ctx context.Context, r PDFRenderer, note models.Note, opts Options) (string, []byte, error) {
	doc, err := HTMLDocument(note, opts)
	if err != nil {
		return "", nil, err
	}
	data, err := r.ExportPDF(ctx, doc)
	if err != nil {
		return "", nil, fmt.Errorf("export pdf: %w", err)
	}
	return FileName(note.Title), data, nil
}
