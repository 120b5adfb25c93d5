package images

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/notetake/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	put       *s3.PutObjectInput
	body      string
	putErr    error
	deleted   *s3.DeleteObjectInput
	deleteErr error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.putErr
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = in
	return &s3.DeleteObjectOutput{}, f.deleteErr
}

func testS3Config() S3Config {
	return S3Config{
		AccessKey:     "minioadmin",
		SecretKey:     "minioadmin",
		Bucket:        "notetake",
		Region:        "us-east-1",
		BaseEndpoint:  "http://127.0.0.1:9000",
		PublicBaseURL: "http://127.0.0.1:9000/notetake/",
		Folder:        "uploads",
	}
}

func TestNewS3Store_AppliesConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	var lo awsconfig.LoadOptions
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		return aws.Config{Region: lo.Region}, nil
	}

	var opts s3.Options
	fake := &fakeS3{}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		for _, fn := range optFns {
			fn(&opts)
		}
		return fake
	}

	s, err := NewS3Store(context.Background(), testS3Config(), logging.Nop{})
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", lo.Region)
	require.NotNil(t, lo.Credentials)
	creds, err := lo.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minioadmin", creds.AccessKeyID)
	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
	assert.Same(t, fake, s.client)
}

func TestNewS3Store_LoadError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Store(context.Background(), testS3Config(), logging.Nop{})
	assert.ErrorContains(t, err, "no config")
}

func TestS3Store_Upload(t *testing.T) {
	f := &fakeS3{}
	s := &S3Store{client: f, cfg: testS3Config(), logger: logging.Nop{}}

	got, err := s.Upload(context.Background(), "Cat.Photo.PNG", "image/png", strings.NewReader("PNG"))
	require.NoError(t, err)

	assert.Equal(t, "uploads/Cat.png", got.PublicID)
	assert.Equal(t, "http://127.0.0.1:9000/notetake/uploads/Cat.png", got.URL)
	assert.Equal(t, "notetake", aws.ToString(f.put.Bucket))
	assert.Equal(t, "image/png", aws.ToString(f.put.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(f.put.ContentLength))
	assert.Equal(t, "PNG", f.body)
}

func TestS3Store_UploadWithoutBaseName(t *testing.T) {
	s := &S3Store{client: &fakeS3{}, cfg: testS3Config(), logger: logging.Nop{}}

	got, err := s.Upload(context.Background(), ".gif", "image/gif", strings.NewReader("GIF"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.PublicID, "uploads/"))
	assert.True(t, strings.HasSuffix(got.PublicID, ".gif"))
	assert.Greater(t, len(got.PublicID), len("uploads/.gif"))
}

func TestS3Store_Errors(t *testing.T) {
	f := &fakeS3{putErr: errors.New("denied"), deleteErr: errors.New("gone")}
	s := &S3Store{client: f, cfg: testS3Config(), logger: logging.Nop{}}

	_, err := s.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorContains(t, err, "denied")

	err = s.Delete(context.Background(), "uploads/a.png")
	assert.ErrorContains(t, err, "gone")
	assert.Equal(t, "uploads/a.png", aws.ToString(f.deleted.Key))
}
