// Package server wires the collaborator backend: image storage, PDF
// rendering and chat completions behind an HTTP API and its gRPC mirror.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/notetake/internal/logging"
	"github.com/dmitrijs2005/notetake/internal/server/chat"
	"github.com/dmitrijs2005/notetake/internal/server/config"
	"github.com/dmitrijs2005/notetake/internal/server/httpapi"
	"github.com/dmitrijs2005/notetake/internal/server/images"
	"github.com/dmitrijs2005/notetake/internal/server/pdf"
	"github.com/dmitrijs2005/notetake/internal/server/services"

	gs "github.com/dmitrijs2005/notetake/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	collaborators *services.Collaborators
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(c.LogLevel))

	store, err := newImageStore(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("image store init error: %w", err)
	}

	if c.GroqAPIKey == "" {
		logger.Warn(ctx, "GROQ_API_KEY is not set, chat requests will fail")
	}
	completer := chat.NewOpenAICompleter(c.GroqAPIKey, c.GroqBaseURL, c.ChatModel)

	collaborators := services.NewCollaborators(
		store,
		images.NewAllowList(c.AllowedFormats),
		pdf.NewChromeRenderer(c.ChromePath, logger),
		chat.NewService(completer, logger),
		logger,
	)

	return &App{config: c, logger: logger, collaborators: collaborators}, nil
}

func newImageStore(ctx context.Context, c *config.Config, l logging.Logger) (images.Store, error) {
	switch c.ImageBackend {
	case config.ImageBackendCloudinary:
		return images.NewCloudinaryStore(c.CloudinaryCloudName, c.CloudinaryAPIKey, c.CloudinaryAPISecret, c.UploadFolder, l)
	case config.ImageBackendS3:
		return images.NewS3Store(ctx, images.S3Config{
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Bucket:        c.S3Bucket,
			Region:        c.S3Region,
			BaseEndpoint:  c.S3BaseEndpoint,
			PublicBaseURL: c.S3PublicBaseURL,
			Folder:        c.UploadFolder,
		}, l)
	default:
		return nil, fmt.Errorf("unknown image backend %q", c.ImageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.HTTPAddr, app.collaborators, app.config.MaxUploadBytes, app.config.ShutdownTimeout, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.collaborators, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves HTTP and gRPC until a signal arrives, ctx is cancelled or either
// server fails, then waits for both to stop.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}
