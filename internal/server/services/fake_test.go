package services

import (
	"context"
	"io"

	"github.com/dmitrijs2005/notetake/internal/api"
)

type fakeImages struct {
	uploaded    []byte
	name        string
	contentType string
	res         api.UploadResponse
	uploadErr   error
	deleted     []string
	deleteErr   error
}

func (f *fakeImages) Upload(_ context.Context, name, contentType string, r io.Reader) (api.UploadResponse, error) {
	f.name, f.contentType = name, contentType
	f.uploaded, _ = io.ReadAll(r)
	return f.res, f.uploadErr
}

func (f *fakeImages) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return f.deleteErr
}

type fakePDF struct {
	html string
	out  []byte
	err  error
}

func (f *fakePDF) Render(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return f.out, f.err
}

type fakeReplier struct {
	messages []api.Message
	notes    []api.NoteSummary
	reply    string
	err      error
}

func (f *fakeReplier) Reply(_ context.Context, messages []api.Message, notes []api.NoteSummary) (string, error) {
	f.messages, f.notes = messages, notes
	return f.reply, f.err
}
