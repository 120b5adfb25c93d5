// Package services holds the transport-independent collaborator logic shared
// by the HTTP API and its gRPC mirror. Validation failures are reported with
// the sentinel errors from internal/common; anything else is a provider
// failure.
package services

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/common"
	"github.com/dmitrijs2005/notetake/internal/logging"
	"github.com/dmitrijs2005/notetake/internal/server/images"
	"github.com/dmitrijs2005/notetake/internal/server/pdf"
)

// Replier answers a chat transcript.
type Replier interface {
	Reply(ctx context.Context, messages []api.Message, notes []api.NoteSummary) (string, error)
}

type Collaborators struct {
	images images.Store
	allow  images.AllowList
	pdf    pdf.Renderer
	chat   Replier
	logger logging.Logger
}

func NewCollaborators(is images.Store, allow images.AllowList, pr pdf.Renderer, chat Replier, l logging.Logger) *Collaborators {
	return &Collaborators{
		images: is,
		allow:  allow,
		pdf:    pr,
		chat:   chat,
		logger: l.With("module", "collaborators"),
	}
}

func (c *Collaborators) Upload(ctx context.Context, name, contentType string, r io.Reader) (api.UploadResponse, error) {
	if r == nil || name == "" {
		return api.UploadResponse{}, common.ErrNoFile
	}
	if !c.allow.Allows(name, contentType) {
		c.logger.Info(ctx, "upload rejected", "name", name, "content_type", contentType)
		return api.UploadResponse{}, common.ErrUnsupportedImage
	}

	res, err := c.images.Upload(ctx, name, contentType, r)
	if err != nil {
		c.logger.Error(ctx, "upload failed", "name", name, "error", err)
		return api.UploadResponse{}, fmt.Errorf("upload %s: %w", name, err)
	}

	c.logger.Info(ctx, "image uploaded", "public_id", res.PublicID)
	return res, nil
}

func (c *Collaborators) DeleteImage(ctx context.Context, publicID string) error {
	if publicID == "" {
		return common.ErrNoPublicID
	}
	if err := c.images.Delete(ctx, publicID); err != nil {
		c.logger.Error(ctx, "delete failed", "public_id", publicID, "error", err)
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	c.logger.Info(ctx, "image deleted", "public_id", publicID)
	return nil
}

func (c *Collaborators) ExportPDF(ctx context.Context, html string) ([]byte, error) {
	if html == "" {
		return nil, common.ErrNoHTML
	}
	out, err := c.pdf.Render(ctx, html)
	if err != nil {
		c.logger.Error(ctx, "pdf generation failed", "error", err)
		return nil, err
	}
	return out, nil
}

func (c *Collaborators) Chat(ctx context.Context, req api.ChatRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", common.ErrNoMessages
	}
	reply, err := c.chat.Reply(ctx, req.Messages, req.Notes)
	if err != nil {
		c.logger.Error(ctx, "chat completion failed", "error", err)
		return "", err
	}
	return reply, nil
}
