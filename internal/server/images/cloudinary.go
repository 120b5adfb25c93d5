package images

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/logging"
)

var newCloudinary = cloudinary.NewFromParams

type cloudinaryAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore keeps images in a Cloudinary folder.
type CloudinaryStore struct {
	api    cloudinaryAPI
	folder string
	logger logging.Logger
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string, l logging.Logger) (*CloudinaryStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}
	cld, err := newCloudinary(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryStore{api: &cld.Upload, folder: folder, logger: l.With("module", "images.cloudinary")}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, name, contentType string, r io.Reader) (api.UploadResponse, error) {
	res, err := s.api.Upload(ctx, r, uploader.UploadParams{
		PublicID: BaseName(name),
		Folder:   s.folder,
	})
	if err != nil {
		return api.UploadResponse{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return api.UploadResponse{}, errors.New("cloudinary upload: empty response")
	}
	if res.Error.Message != "" {
		return api.UploadResponse{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}

	s.logger.Debug(ctx, "image uploaded", "public_id", res.PublicID, "content_type", contentType)
	return api.UploadResponse{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete destroys the image. A "not found" result counts as success, the
// image is gone either way.
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	res, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res != nil && res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	return nil
}
