package images

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/logging"
	"github.com/oklog/ulid/v2"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) s3API {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config describes an S3-compatible bucket (MinIO in development).
type S3Config struct {
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	BaseEndpoint  string
	PublicBaseURL string
	Folder        string
}

// S3Store keeps images as objects under Folder. The public id is the object
// key and the url is PublicBaseURL joined with it.
type S3Store struct {
	client s3API
	cfg    S3Config
	logger logging.Logger
}

func NewS3Store(ctx context.Context, c S3Config, l logging.Logger) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, cfg: c, logger: l.With("module", "images.s3")}, nil
}

func (s *S3Store) key(name string) string {
	base := BaseName(name)
	if base == "" {
		base = strings.ToLower(ulid.Make().String())
	}
	ext := strings.ToLower(path.Ext(name))
	return path.Join(s.cfg.Folder, base) + ext
}

func (s *S3Store) Upload(ctx context.Context, name, contentType string, r io.Reader) (api.UploadResponse, error) {
	// the body must be seekable for request signing
	data, err := io.ReadAll(r)
	if err != nil {
		return api.UploadResponse{}, fmt.Errorf("read upload: %w", err)
	}

	key := s.key(name)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return api.UploadResponse{}, fmt.Errorf("put object %s: %w", key, err)
	}

	s.logger.Debug(ctx, "image uploaded", "key", key, "bytes", len(data))
	return api.UploadResponse{
		URL:      strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key,
		PublicID: key,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", publicID, err)
	}
	return nil
}
