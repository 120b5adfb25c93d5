package grpc

import (
	"context"
	"io"

	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/common"
)

type fakeCollaborators struct {
	uploadName string
	uploadType string
	uploadBody string
	uploadRes  api.UploadResponse
	uploadErr  error
	deletedID  string
	deleteErr  error
	pdfHTML    string
	pdfOut     []byte
	pdfErr     error
	chatReq    api.ChatRequest
	chatReply  string
	chatErr    error
}

func (f *fakeCollaborators) Upload(_ context.Context, name, contentType string, r io.Reader) (api.UploadResponse, error) {
	f.uploadName, f.uploadType = name, contentType
	if r != nil {
		b, _ := io.ReadAll(r)
		f.uploadBody = string(b)
	}
	return f.uploadRes, f.uploadErr
}

func (f *fakeCollaborators) DeleteImage(_ context.Context, publicID string) error {
	f.deletedID = publicID
	if publicID == "" {
		return common.ErrNoPublicID
	}
	return f.deleteErr
}

func (f *fakeCollaborators) ExportPDF(_ context.Context, html string) ([]byte, error) {
	f.pdfHTML = html
	if html == "" {
		return nil, common.ErrNoHTML
	}
	return f.pdfOut, f.pdfErr
}

func (f *fakeCollaborators) Chat(_ context.Context, req api.ChatRequest) (string, error) {
	f.chatReq = req
	if len(req.Messages) == 0 {
		return "", common.ErrNoMessages
	}
	return f.chatReply, f.chatErr
}
