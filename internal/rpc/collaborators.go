// Package rpc is the gRPC mirror of the collaborator HTTP endpoints. The
// service is described by hand over protobuf well-known types, so no code
// generation step is involved.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "notetake.v1.Collaborators"

const (
	UploadMethod      = "/" + ServiceName + "/Upload"
	DeleteImageMethod = "/" + ServiceName + "/DeleteImage"
	ExportPDFMethod   = "/" + ServiceName + "/ExportPDF"
	ChatMethod        = "/" + ServiceName + "/Chat"
)

// CollaboratorsServer is implemented by the backend.
//
// Upload takes the file bytes; the original name and content type travel as
// x-file-name and x-file-type metadata. It answers {"url", "public_id"}.
// Chat takes {"messages", "notes"} and answers the reply text.
type CollaboratorsServer interface {
	Upload(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	DeleteImage(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ExportPDF(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	Chat(context.Context, *structpb.Struct) (*wrapperspb.StringValue, error)
}

func RegisterCollaboratorsServer(s grpc.ServiceRegistrar, srv CollaboratorsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CollaboratorsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Upload", Handler: uploadHandler},
		{MethodName: "DeleteImage", Handler: deleteImageHandler},
		{MethodName: "ExportPDF", Handler: exportPDFHandler},
		{MethodName: "Chat", Handler: chatHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "notetake/v1/collaborators",
}

func unary[Req any, Resp any](
	method string,
	call func(CollaboratorsServer, context.Context, *Req) (Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CollaboratorsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CollaboratorsServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	uploadHandler      = unary(UploadMethod, CollaboratorsServer.Upload)
	deleteImageHandler = unary(DeleteImageMethod, CollaboratorsServer.DeleteImage)
	exportPDFHandler   = unary(ExportPDFMethod, CollaboratorsServer.ExportPDF)
	chatHandler        = unary(ChatMethod, CollaboratorsServer.Chat)
)

// CollaboratorsClient calls the service over a client connection.
type CollaboratorsClient struct {
	cc grpc.ClientConnInterface
}

func NewCollaboratorsClient(cc grpc.ClientConnInterface) *CollaboratorsClient {
	return &CollaboratorsClient{cc: cc}
}

func (c *CollaboratorsClient) Upload(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, UploadMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CollaboratorsClient) DeleteImage(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, DeleteImageMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CollaboratorsClient) ExportPDF(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, ExportPDFMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CollaboratorsClient) Chat(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, ChatMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
