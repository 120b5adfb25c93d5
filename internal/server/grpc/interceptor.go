package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/notetake/internal/common"
	"github.com/oklog/ulid/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var requestIDKey = strings.ToLower(common.RequestIDHeader)

// requestLogInterceptor tags every call with a request id (taken from the
// caller's metadata when present) and logs its outcome.
func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()

	var id string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		id = firstMD(md, requestIDKey)
	}
	if id == "" {
		id = ulid.Make().String()
	}
	// fails only outside a real transport stream, e.g. direct calls in tests
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDKey, id))

	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "rpc",
		"request_id", id,
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
