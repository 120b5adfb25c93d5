package config

import (
	"github.com/dmitrijs2005/notetake/internal/flagx"
	"github.com/dmitrijs2005/notetake/internal/timex"
)

// FileConfig is the on-disk shape of the CLI configuration. Only keys present
// in the file override defaults.
type FileConfig struct {
	StoreKind  string         `json:"store" yaml:"store"`
	StoreDSN   string         `json:"dsn" yaml:"dsn"`
	StoreDir   string         `json:"store_dir" yaml:"store_dir"`
	ServerURL  string         `json:"server" yaml:"server"`
	GRPCAddr   string         `json:"grpc_addr" yaml:"grpc_addr"`
	Transport  string         `json:"transport" yaml:"transport"`
	RevealTick timex.Duration `json:"reveal_tick" yaml:"reveal_tick"`
	Style      string         `json:"style" yaml:"style"`
	Verbose    *bool          `json:"verbose" yaml:"verbose"`
}

func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	var fc FileConfig
	if err := flagx.DecodeFile(path, &fc); err != nil {
		return err
	}

	setIf(&cfg.StoreKind, fc.StoreKind)
	setIf(&cfg.StoreDSN, fc.StoreDSN)
	setIf(&cfg.StoreDir, fc.StoreDir)
	setIf(&cfg.ServerURL, fc.ServerURL)
	setIf(&cfg.GRPCAddr, fc.GRPCAddr)
	setIf(&cfg.Transport, fc.Transport)
	setIf(&cfg.Style, fc.Style)
	if fc.RevealTick.Duration > 0 {
		cfg.RevealTick = fc.RevealTick.Duration
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
