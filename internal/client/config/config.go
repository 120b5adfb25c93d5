package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Config holds runtime settings for the notetake CLI.
//
// Fields:
//   - StoreKind / StoreDSN / StoreDir: local persistent store (see store.Options).
//   - ServerURL: base URL of the collaborator HTTP API.
//   - GRPCAddr: host:port of the collaborator gRPC endpoint.
//   - Transport: "http" or "grpc".
//   - RevealTick: delay between revealed runes of a chat reply.
//   - Style: chroma style used for code blocks in HTML and PDF exports.
//   - Verbose: log at debug level instead of warn.
type Config struct {
	StoreKind  string
	StoreDSN   string
	StoreDir   string
	ServerURL  string
	GRPCAddr   string
	Transport  string
	RevealTick time.Duration
	Style      string
	Verbose    bool
}

// DataDir is where local state lives by default.
func DataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "notetake")
	}
	return ".notetake"
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	dir := DataDir()
	c.StoreKind = "sqlite"
	c.StoreDSN = filepath.Join(dir, "notetake.db")
	c.StoreDir = filepath.Join(dir, "store")
	c.ServerURL = "http://localhost:3001"
	c.GRPCAddr = "127.0.0.1:50051"
	c.Transport = TransportHTTP
	c.RevealTick = 20 * time.Millisecond
	c.Style = "github"
	c.Verbose = false
}

// LoadConfig constructs a Config, applies defaults, then overlays the config
// file named in args (if any). Flags are applied later by cobra once
// BindFlags registered them.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
