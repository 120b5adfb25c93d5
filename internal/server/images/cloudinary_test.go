package images

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	cldapi "github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/dmitrijs2005/notetake/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudinary struct {
	uploadParams  uploader.UploadParams
	uploaded      string
	uploadResult  *uploader.UploadResult
	uploadErr     error
	destroyParams uploader.DestroyParams
	destroyResult *uploader.DestroyResult
	destroyErr    error
}

func (f *fakeCloudinary) Upload(_ context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.uploadParams = params
	if r, ok := file.(io.Reader); ok {
		b, _ := io.ReadAll(r)
		f.uploaded = string(b)
	}
	return f.uploadResult, f.uploadErr
}

func (f *fakeCloudinary) Destroy(_ context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyParams = params
	return f.destroyResult, f.destroyErr
}

func newTestCloudinary(f *fakeCloudinary) *CloudinaryStore {
	return &CloudinaryStore{api: f, folder: "uploads", logger: logging.Nop{}}
}

func TestCloudinaryStore_Upload(t *testing.T) {
	f := &fakeCloudinary{uploadResult: &uploader.UploadResult{
		SecureURL: "https://res.cloudinary.com/demo/uploads/cat.png",
		PublicID:  "uploads/cat",
	}}
	s := newTestCloudinary(f)

	got, err := s.Upload(context.Background(), "cat.png", "image/png", strings.NewReader("PNG"))
	require.NoError(t, err)

	assert.Equal(t, "https://res.cloudinary.com/demo/uploads/cat.png", got.URL)
	assert.Equal(t, "uploads/cat", got.PublicID)
	assert.Equal(t, "cat", f.uploadParams.PublicID)
	assert.Equal(t, "uploads", f.uploadParams.Folder)
	assert.Equal(t, "PNG", f.uploaded)
}

func TestCloudinaryStore_UploadErrors(t *testing.T) {
	tests := []struct {
		name string
		f    *fakeCloudinary
	}{
		{name: "transport", f: &fakeCloudinary{uploadErr: errors.New("boom")}},
		{name: "nil result", f: &fakeCloudinary{}},
		{name: "api error", f: &fakeCloudinary{uploadResult: &uploader.UploadResult{Error: cldapi.ErrorResp{Message: "bad"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestCloudinary(tt.f).Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
			require.Error(t, err)
		})
	}
}

func TestCloudinaryStore_Delete(t *testing.T) {
	f := &fakeCloudinary{destroyResult: &uploader.DestroyResult{Result: "not found"}}
	require.NoError(t, newTestCloudinary(f).Delete(context.Background(), "uploads/cat"))
	assert.Equal(t, "uploads/cat", f.destroyParams.PublicID)

	f = &fakeCloudinary{destroyErr: errors.New("down")}
	require.Error(t, newTestCloudinary(f).Delete(context.Background(), "uploads/cat"))

	f = &fakeCloudinary{destroyResult: &uploader.DestroyResult{Error: cldapi.ErrorResp{Message: "denied"}}}
	assert.ErrorContains(t, newTestCloudinary(f).Delete(context.Background(), "uploads/cat"), "denied")
}

func TestNewCloudinaryStore_RequiresCredentials(t *testing.T) {
	_, err := NewCloudinaryStore("", "k", "s", "uploads", logging.Nop{})
	require.Error(t, err)
}
