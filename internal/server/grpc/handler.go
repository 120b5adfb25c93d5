package grpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// validation maps the collaborator sentinel errors to their wire messages.
var validation = map[error]string{
	common.ErrNoFile:           api.MsgNoFile,
	common.ErrUnsupportedImage: api.MsgUnsupportedImage,
	common.ErrNoPublicID:       api.MsgNoPublicID,
	common.ErrNoHTML:           api.MsgNoHTML,
	common.ErrNoMessages:       api.MsgNoMessages,
}

func toStatus(err error, failure string) error {
	for sentinel, msg := range validation {
		if errors.Is(err, sentinel) {
			return status.Error(codes.InvalidArgument, msg)
		}
	}
	return status.Error(codes.Internal, failure)
}

func firstMD(md metadata.MD, key string) string {
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (s *GRPCServer) Upload(ctx context.Context, in *wrapperspb.BytesValue) (*structpb.Struct, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	name := firstMD(md, common.FileNameMetadata)
	contentType := firstMD(md, common.FileTypeMetadata)

	var r io.Reader
	if len(in.GetValue()) > 0 {
		r = bytes.NewReader(in.GetValue())
	}

	res, err := s.svc.Upload(ctx, name, contentType, r)
	if err != nil {
		return nil, toStatus(err, api.MsgUploadFailed)
	}

	out, err := structpb.NewStruct(map[string]any{
		"url":       res.URL,
		"public_id": res.PublicID,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, api.MsgUploadFailed)
	}
	return out, nil
}

func (s *GRPCServer) DeleteImage(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := s.svc.DeleteImage(ctx, in.GetValue()); err != nil {
		return nil, toStatus(err, api.MsgDeleteFailed)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) ExportPDF(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	out, err := s.svc.ExportPDF(ctx, in.GetValue())
	if err != nil {
		return nil, toStatus(err, api.MsgPDFFailed)
	}
	return wrapperspb.Bytes(out), nil
}

func (s *GRPCServer) Chat(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	var req api.ChatRequest
	if in != nil {
		raw, err := in.MarshalJSON()
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, api.MsgNoMessages)
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, status.Error(codes.InvalidArgument, api.MsgNoMessages)
		}
	}

	reply, err := s.svc.Chat(ctx, req)
	if err != nil {
		return nil, toStatus(err, api.MsgChatFailed)
	}
	return wrapperspb.String(reply), nil
}
