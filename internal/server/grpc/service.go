package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "finassist.ChatService"

const (
	pingMethod          = "/" + serviceName + "/Ping"
	startSessionMethod  = "/" + serviceName + "/StartSession"
	sendTurnMethod      = "/" + serviceName + "/SendTurn"
	getTranscriptMethod = "/" + serviceName + "/GetTranscript"
	endSessionMethod    = "/" + serviceName + "/EndSession"
)

// ChatServiceServer is the server side of finassist.ChatService.
type ChatServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	StartSession(context.Context, *StartSessionRequest) (*SessionInfo, error)
	SendTurn(context.Context, *SendTurnRequest) (*SendTurnResponse, error)
	GetTranscript(context.Context, *GetTranscriptRequest) (*GetTranscriptResponse, error)
	EndSession(context.Context, *EndSessionRequest) (*EndSessionResponse, error)
}

// unaryHandler adapts one typed method to grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(ChatServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ChatServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ChatServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var chatServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(pingMethod, ChatServiceServer.Ping)},
		{MethodName: "StartSession", Handler: unaryHandler(startSessionMethod, ChatServiceServer.StartSession)},
		{MethodName: "SendTurn", Handler: unaryHandler(sendTurnMethod, ChatServiceServer.SendTurn)},
		{MethodName: "GetTranscript", Handler: unaryHandler(getTranscriptMethod, ChatServiceServer.GetTranscript)},
		{MethodName: "EndSession", Handler: unaryHandler(endSessionMethod, ChatServiceServer.EndSession)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "finassist/chat",
}

// RegisterChatServiceServer registers srv on s.
func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&chatServiceDesc, srv)
}
