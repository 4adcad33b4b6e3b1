package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service-desc
// ServiceName is the fully qualified gRPC service name.
const ServiceName = "episodes.v1.DailyFeed"

// Method names, as used in full method paths.
const (
	MethodEnsureDailyFeed = "EnsureDailyFeed"
	MethodSelectOption    = "SelectOption"
	MethodChoose          = "Choose"
	MethodResetDay        = "ResetDay"
	MethodGetState        = "GetState"
)

// DailyFeedServer is the server side of the DailyFeed service. Every message
// is a JSON object carried in a structpb.Struct.
type DailyFeedServer interface {
	EnsureDailyFeed(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelectOption(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Choose(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetDay(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(DailyFeedServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc describes the DailyFeed service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DailyFeedServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodEnsureDailyFeed, Handler: handler(MethodEnsureDailyFeed, DailyFeedServer.EnsureDailyFeed)},
		{MethodName: MethodSelectOption, Handler: handler(MethodSelectOption, DailyFeedServer.SelectOption)},
		{MethodName: MethodChoose, Handler: handler(MethodChoose, DailyFeedServer.Choose)},
		{MethodName: MethodResetDay, Handler: handler(MethodResetDay, DailyFeedServer.ResetDay)},
		{MethodName: MethodGetState, Handler: handler(MethodGetState, DailyFeedServer.GetState)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "episodes/v1/daily_feed",
}

// RegisterDailyFeedServer registers srv on s.
func RegisterDailyFeedServer(s grpc.ServiceRegistrar, srv DailyFeedServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func handler(name string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DailyFeedServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(DailyFeedServer), ctx, req.(*structpb.Struct))
		})
	}
}

// #endregion service-desc
