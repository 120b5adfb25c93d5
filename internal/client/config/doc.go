// Package config loads runtime configuration for the notetake CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or --config.
//  3. Persistent command-line flags bound with (*Config).BindFlags, which
//     override earlier values.
//
// # File schema
//
// Intervals use timex.Duration, so values can be strings like "20ms" or
// integer nanoseconds:
//
//	store: sqlite
//	dsn: /home/me/.config/notetake/notetake.db
//	server: http://localhost:3001
//	transport: http
//	reveal_tick: 20ms
package config
