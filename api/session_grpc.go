package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "vinom.maze.Session"

// Full method names.
const (
	NewSessionMethod  = "/" + serviceName + "/NewSession"
	SessionInfoMethod = "/" + serviceName + "/SessionInfo"
	StateMethod       = "/" + serviceName + "/State"
)

// SessionServer is the server API for the vinom.maze.Session service.
// Requests and responses are protobuf Structs.
type SessionServer interface {
	NewSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SessionInfo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	State(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(SessionServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name, fullMethod string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SessionServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SessionServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var sessionServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("NewSession", NewSessionMethod, SessionServer.NewSession),
		unary("SessionInfo", SessionInfoMethod, SessionServer.SessionInfo),
		unary("State", StateMethod, SessionServer.State),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vinom/maze/session.proto",
}

// RegisterSessionServer registers srv on s.
func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(&sessionServiceDesc, srv)
}
