package config

import (
	"github.com/dmitrijs2005/notetake/internal/flagx"
	"github.com/dmitrijs2005/notetake/internal/timex"
)

// FileConfig is the on-disk shape of the server configuration. It is decoded
// from JSON or YAML and only non-empty fields are copied onto Config, so a
// file may set just the keys it cares about.
type FileConfig struct {
	HTTPAddr            string         `json:"http_addr" yaml:"http_addr"`
	GRPCAddr            string         `json:"grpc_addr" yaml:"grpc_addr"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	ImageBackend        string         `json:"image_backend" yaml:"image_backend"`
	UploadFolder        string         `json:"upload_folder" yaml:"upload_folder"`
	AllowedFormats      []string       `json:"allowed_formats" yaml:"allowed_formats"`
	MaxUploadBytes      int64          `json:"max_upload_bytes" yaml:"max_upload_bytes"`
	CloudinaryCloudName string         `json:"cloudinary_cloud_name" yaml:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string         `json:"cloudinary_api_key" yaml:"cloudinary_api_key"`
	CloudinaryAPISecret string         `json:"cloudinary_api_secret" yaml:"cloudinary_api_secret"`
	S3AccessKey         string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Bucket            string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region            string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3PublicBaseURL     string         `json:"s3_public_base_url" yaml:"s3_public_base_url"`
	GroqAPIKey          string         `json:"groq_api_key" yaml:"groq_api_key"`
	GroqBaseURL         string         `json:"groq_base_url" yaml:"groq_base_url"`
	ChatModel           string         `json:"chat_model" yaml:"chat_model"`
	ChromePath          string         `json:"chrome_path" yaml:"chrome_path"`
	ShutdownTimeout     timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// parseFile overlays the file named by -c/-config, if any.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	var fc FileConfig
	if err := flagx.DecodeFile(path, &fc); err != nil {
		return err
	}
	fc.apply(config)
	return nil
}

func (fc *FileConfig) apply(c *Config) {
	for dst, src := range map[*string]string{
		&c.HTTPAddr:            fc.HTTPAddr,
		&c.GRPCAddr:            fc.GRPCAddr,
		&c.LogLevel:            fc.LogLevel,
		&c.ImageBackend:        fc.ImageBackend,
		&c.UploadFolder:        fc.UploadFolder,
		&c.CloudinaryCloudName: fc.CloudinaryCloudName,
		&c.CloudinaryAPIKey:    fc.CloudinaryAPIKey,
		&c.CloudinaryAPISecret: fc.CloudinaryAPISecret,
		&c.S3AccessKey:         fc.S3AccessKey,
		&c.S3SecretKey:         fc.S3SecretKey,
		&c.S3Bucket:            fc.S3Bucket,
		&c.S3Region:            fc.S3Region,
		&c.S3BaseEndpoint:      fc.S3BaseEndpoint,
		&c.S3PublicBaseURL:     fc.S3PublicBaseURL,
		&c.GroqAPIKey:          fc.GroqAPIKey,
		&c.GroqBaseURL:         fc.GroqBaseURL,
		&c.ChatModel:           fc.ChatModel,
		&c.ChromePath:          fc.ChromePath,
	} {
		if src != "" {
			*dst = src
		}
	}

	if len(fc.AllowedFormats) > 0 {
		c.AllowedFormats = append([]string(nil), fc.AllowedFormats...)
	}
	if fc.MaxUploadBytes > 0 {
		c.MaxUploadBytes = fc.MaxUploadBytes
	}
	if fc.ShutdownTimeout.Duration > 0 {
		c.ShutdownTimeout = fc.ShutdownTimeout.Duration
	}
}
