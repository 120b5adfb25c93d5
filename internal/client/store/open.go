package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notetake/internal/logging"
)

// Backend kinds selectable from configuration.
const (
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindFile     = "file"
	KindMemory   = "memory"
)

// Options selects and configures the backend.
type Options struct {
	// Kind is one of sqlite, postgres, file or memory.
	Kind string
	// DSN is the database file or connection string for SQL kinds.
	DSN string
	// Dir is the directory used by the file kind.
	Dir string
}

// Open builds the backend described by opts and wraps it in a Store.
func Open(ctx context.Context, opts Options, l logging.Logger) (*Store, error) {
	var (
		b   Backend
		err error
	)

	switch opts.Kind {
	case KindSQLite, "":
		b, err = OpenSQL(ctx, DriverSQLite, opts.DSN)
	case KindPostgres:
		b, err = OpenSQL(ctx, DriverPostgres, opts.DSN)
	case KindFile:
		b, err = NewFileBackend(opts.Dir)
	case KindMemory:
		b = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown store kind %q", opts.Kind)
	}
	if err != nil {
		return nil, err
	}

	return New(b, l), nil
}
