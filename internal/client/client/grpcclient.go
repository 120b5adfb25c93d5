package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/common"
	"github.com/dmitrijs2005/notetake/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type collaboratorsAPI interface {
	Upload(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteImage(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ExportPDF(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Chat(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      collaboratorsAPI
	health      healthpb.HealthClient
}

// NewGRPCClient dials endpointURL lazily; extra dial options are appended
// to the insecure transport credentials.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.initGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewCollaboratorsClient(conn)
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Upload(ctx context.Context, name string, r io.Reader) (models.Image, error) {
	contentType, r := sniffContentType(name, r)
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Image{}, fmt.Errorf("read %s: %w", name, err)
	}

	ctx = metadata.AppendToOutgoingContext(ctx,
		common.FileNameMetadata, name,
		common.FileTypeMetadata, contentType,
	)
	resp, err := s.client.Upload(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return models.Image{}, s.mapError(err)
	}

	fields := resp.GetFields()
	return models.Image{
		URL:      fields["url"].GetStringValue(),
		PublicID: fields["public_id"].GetStringValue(),
	}, nil
}

func (s *GRPCClient) DeleteImage(ctx context.Context, publicID string) error {
	if _, err := s.client.DeleteImage(ctx, wrapperspb.String(publicID)); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ExportPDF(ctx context.Context, html string) ([]byte, error) {
	resp, err := s.client.ExportPDF(ctx, wrapperspb.String(html))
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.GetValue(), nil
}

func (s *GRPCClient) Chat(ctx context.Context, messages []models.ChatMessage, notes []models.Note) (string, error) {
	raw, err := json.Marshal(toChatRequest(messages, notes))
	if err != nil {
		return "", err
	}
	req := &structpb.Struct{}
	if err := req.UnmarshalJSON(raw); err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	resp, err := s.client.Chat(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.GetValue(), nil
}

// Ping asks the standard health service for the collaborator service.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: rpc.ServiceName})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
