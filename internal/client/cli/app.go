package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/dmitrijs2005/notetake/internal/client/attachments"
	"github.com/dmitrijs2005/notetake/internal/client/client"
	"github.com/dmitrijs2005/notetake/internal/client/config"
	"github.com/dmitrijs2005/notetake/internal/client/notes"
	"github.com/dmitrijs2005/notetake/internal/client/store"
	"github.com/dmitrijs2005/notetake/internal/client/tags"
	"github.com/dmitrijs2005/notetake/internal/filex"
	"github.com/dmitrijs2005/notetake/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  *store.Store
	tags   *tags.Registry
	notes  *notes.Repository
	images *attachments.Manager
	api    client.Client
	in     *bufio.Reader
	out    io.Writer

	interrupts *interrupts
}

// newAPIClient is a test seam; tests swap in a fake collaborator.
var newAPIClient = func(c *config.Config) (client.Client, error) {
	switch c.Transport {
	case config.TransportHTTP, "":
		return client.NewHTTPClient(c.ServerURL, nil), nil
	case config.TransportGRPC:
		return client.NewGRPCClient(c.GRPCAddr)
	default:
		return nil, fmt.Errorf("unknown transport %q", c.Transport)
	}
}

func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, errOut io.Writer) (*App, error) {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewText(errOut, level)

	if err := ensureStoreDir(c); err != nil {
		return nil, err
	}

	s, err := store.Open(ctx, store.Options{Kind: c.StoreKind, DSN: c.StoreDSN, Dir: c.StoreDir}, logger)
	if err != nil {
		return nil, fmt.Errorf("error initializing store: %w", err)
	}

	api, err := newAPIClient(c)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	reg := tags.NewRegistry(s)
	return &App{
		config: c,
		logger: logger,
		store:  s,
		tags:   reg,
		notes:  notes.NewRepository(s, reg),
		images: attachments.NewManager(s, api, logger),
		api:    api,
		in:     bufio.NewReader(in),
		out:    out,
	}, nil
}

// ensureStoreDir creates the directory the configured store writes into.
func ensureStoreDir(c *config.Config) error {
	var dir string
	switch c.StoreKind {
	case store.KindSQLite, "":
		if c.StoreDSN == ":memory:" || c.StoreDSN == "" {
			return nil
		}
		dir = filepath.Dir(c.StoreDSN)
	case store.KindFile:
		dir = c.StoreDir
	default:
		return nil
	}
	_, err := filex.EnsureSubdDir(dir)
	return err
}

func (a *App) Close() error {
	apiErr := a.api.Close()
	if err := a.store.Close(); err != nil {
		return err
	}
	return apiErr
}

func (a *App) tty() bool {
	return writerIsTerminal(a.out)
}
