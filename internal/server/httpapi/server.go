// Package httpapi serves the collaborator JSON API consumed by the notetake
// client.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/logging"
	"github.com/rs/cors"
)

// Collaborators is the backend behind the handlers.
type Collaborators interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (api.UploadResponse, error)
	DeleteImage(ctx context.Context, publicID string) error
	ExportPDF(ctx context.Context, html string) ([]byte, error)
	Chat(ctx context.Context, req api.ChatRequest) (string, error)
}

type Server struct {
	address         string
	svc             Collaborators
	maxUploadBytes  int64
	shutdownTimeout time.Duration
	logger          logging.Logger
}

func NewServer(address string, svc Collaborators, maxUploadBytes int64, shutdownTimeout time.Duration, l logging.Logger) *Server {
	return &Server{
		address:         address,
		svc:             svc,
		maxUploadBytes:  maxUploadBytes,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "http_server"),
	}
}

// Handler returns the routed API wrapped in CORS, request-id and access-log
// middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+api.PathUpload, s.upload)
	mux.HandleFunc("DELETE "+api.PathDeleteImage, s.deleteImage)
	mux.HandleFunc("POST "+api.PathExportPDF, s.exportPDF)
	mux.HandleFunc("POST "+api.PathChat, s.chat)
	mux.HandleFunc("GET "+api.PathHealth, s.health)

	return s.requestID(s.accessLog(cors.AllowAll().Handler(mux)))
}

// Run serves until ctx is cancelled, then drains connections for at most the
// shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
