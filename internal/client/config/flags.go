package config

import "github.com/spf13/cobra"

// BindFlags registers persistent flags on cmd whose defaults are the current
// values of c, so file settings show up as defaults and flags win.
//
// --config is registered only so cobra accepts it; the file itself is read
// by LoadConfig before the command tree is built.
func (c *Config) BindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()

	f.StringP("config", "c", "", "config file (JSON or YAML)")
	f.StringVar(&c.StoreKind, "store", c.StoreKind, "store backend: sqlite, postgres, file or memory")
	f.StringVar(&c.StoreDSN, "dsn", c.StoreDSN, "database file or connection string for SQL stores")
	f.StringVar(&c.StoreDir, "store-dir", c.StoreDir, "directory used by the file store")
	f.StringVarP(&c.ServerURL, "server", "s", c.ServerURL, "collaborator HTTP base URL")
	f.StringVar(&c.GRPCAddr, "grpc-addr", c.GRPCAddr, "collaborator gRPC address")
	f.StringVarP(&c.Transport, "transport", "t", c.Transport, "collaborator transport: http or grpc")
	f.DurationVar(&c.RevealTick, "reveal-tick", c.RevealTick, "delay between revealed characters of a chat reply")
	f.StringVar(&c.Style, "style", c.Style, "code highlighting style for exports")
	f.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "enable verbose logging")
}
