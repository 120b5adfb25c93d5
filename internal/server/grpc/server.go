// Package grpc serves the gRPC mirror of the collaborator API together with
// the standard health service.
package grpc

import (
	"context"
	"io"
	"net"

	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/logging"
	"github.com/dmitrijs2005/notetake/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Collaborators is the backend behind the RPC handlers.
type Collaborators interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (api.UploadResponse, error)
	DeleteImage(ctx context.Context, publicID string) error
	ExportPDF(ctx context.Context, html string) ([]byte, error)
	Chat(ctx context.Context, req api.ChatRequest) (string, error)
}

type GRPCServer struct {
	address string
	svc     Collaborators
	health  *health.Server
	logger  logging.Logger
}

func NewGRPCServer(a string, svc Collaborators, l logging.Logger) *GRPCServer {
	return &GRPCServer{
		address: a,
		svc:     svc,
		health:  health.NewServer(),
		logger:  l.With("module", "grpc_server"),
	}
}

// newServer builds the grpc.Server with every service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.requestLogInterceptor))

	rpc.RegisterCollaboratorsServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
