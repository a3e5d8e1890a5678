// Package tokend serves token resolution over gRPC for out-of-process UI
// collaborators. Messages are protobuf well-known types, so no generated
// code is needed on either side.
package tokend

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "tint.v1.TokenService"

// Full method names.
const (
	ResolveMethod    = "/" + ServiceName + "/Resolve"
	ListTokensMethod = "/" + ServiceName + "/ListTokens"
	StatusMethod     = "/" + ServiceName + "/Status"
)

// TokenServiceServer is the server API for tint.v1.TokenService.
type TokenServiceServer interface {
	// Resolve maps a token path (StringValue) to a struct with token, hex,
	// r, g, b, a, resolved and, on failure, error fields.
	Resolve(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// ListTokens returns {"tokens": {path: hex}, "palette": {path: hex}}.
	ListTokens(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// Status reports version, uptime and store state.
	Status(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterTokenServiceServer registers srv on s.
func RegisterTokenServiceServer(s grpc.ServiceRegistrar, srv TokenServiceServer) {
	s.RegisterService(&TokenServiceDesc, srv)
}

// TokenServiceDesc describes tint.v1.TokenService.
var TokenServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TokenServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Resolve", Handler: resolveHandler},
		{MethodName: "ListTokens", Handler: listTokensHandler},
		{MethodName: "Status", Handler: statusHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tint/v1/tokens.proto",
}

func resolveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TokenServiceServer).Resolve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ResolveMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TokenServiceServer).Resolve(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listTokensHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TokenServiceServer).ListTokens(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListTokensMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TokenServiceServer).ListTokens(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func statusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TokenServiceServer).Status(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: StatusMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TokenServiceServer).Status(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
