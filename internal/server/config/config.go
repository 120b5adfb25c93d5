// Package config handles configuration for the collaborator server,
// including defaults, the environment (.env aware), a JSON or YAML overlay
// and command-line flags.
package config

import "time"

const (
	ImageBackendCloudinary = "cloudinary"
	ImageBackendS3         = "s3"
)

// Config holds runtime settings for the notetake collaborator server.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses for the JSON API and its gRPC mirror.
//   - LogLevel: debug, info, warn or error.
//   - ImageBackend: "cloudinary" or "s3".
//   - UploadFolder / AllowedFormats / MaxUploadBytes: upload policy.
//   - Cloudinary*: hosted image store credentials.
//   - S3*: S3-compatible image store settings; S3PublicBaseURL prefixes object keys in returned URLs.
//   - GroqAPIKey / GroqBaseURL / ChatModel: OpenAI-compatible chat completion endpoint.
//   - ChromePath: optional headless Chrome binary used for PDF rendering.
//   - ShutdownTimeout: grace period for draining HTTP connections.
type Config struct {
	HTTPAddr            string
	GRPCAddr            string
	LogLevel            string
	ImageBackend        string
	UploadFolder        string
	AllowedFormats      []string
	MaxUploadBytes      int64
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	S3AccessKey         string
	S3SecretKey         string
	S3Bucket            string
	S3Region            string
	S3BaseEndpoint      string
	S3PublicBaseURL     string
	GroqAPIKey          string
	GroqBaseURL         string
	ChatModel           string
	ChromePath          string
	ShutdownTimeout     time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3001"
	c.GRPCAddr = ":50051"
	c.LogLevel = "info"
	c.ImageBackend = ImageBackendCloudinary
	c.UploadFolder = "uploads"
	c.AllowedFormats = []string{"jpg", "png", "jpeg", "gif"}
	c.MaxUploadBytes = 10 << 20
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "notetake"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3PublicBaseURL = "http://127.0.0.1:9000/notetake"
	c.GroqBaseURL = "https://api.groq.com/openai/v1"
	c.ChatModel = "qwen/qwen3-32b"
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then the environment,
// then an optional config file and finally command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
