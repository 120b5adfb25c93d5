package client

import (
	"bufio"
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/client/models"
)

// Client is implemented by HTTPClient and GRPCClient.
type Client interface {
	Upload(ctx context.Context, name string, r io.Reader) (models.Image, error)
	DeleteImage(ctx context.Context, publicID string) error
	ExportPDF(ctx context.Context, html string) ([]byte, error)
	Chat(ctx context.Context, messages []models.ChatMessage, notes []models.Note) (string, error)
	Ping(ctx context.Context) error
	Close() error
}

// sniffContentType guesses the upload's content type from its first bytes,
// falling back to the file extension. The returned reader replays the
// sniffed prefix.
func sniffContentType(name string, r io.Reader) (string, io.Reader) {
	br := bufio.NewReaderSize(r, 512)
	head, _ := br.Peek(512)

	ct := http.DetectContentType(head)
	if !strings.HasPrefix(ct, "image/") {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
			ct = byExt
		}
	}
	return ct, br
}

func toChatRequest(messages []models.ChatMessage, notes []models.Note) api.ChatRequest {
	req := api.ChatRequest{Messages: make([]api.Message, 0, len(messages))}
	for _, m := range messages {
		req.Messages = append(req.Messages, api.Message{Role: m.Role, Content: m.Content})
	}
	if notes == nil {
		return req
	}
	req.Notes = make([]api.NoteSummary, 0, len(notes))
	for _, n := range notes {
		tags := make([]api.Tag, 0, len(n.Tags))
		for _, t := range n.Tags {
			tags = append(tags, api.Tag{ID: t.ID, Label: t.Label})
		}
		req.Notes = append(req.Notes, api.NoteSummary{ID: n.ID, Title: n.Title, Markdown: n.Markdown, Tags: tags})
	}
	return req
}
