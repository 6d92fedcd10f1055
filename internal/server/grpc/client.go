package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ChatClient calls finassist.ChatService over an established connection.
type ChatClient struct {
	cc grpc.ClientConnInterface
}

func NewChatClient(cc grpc.ClientConnInterface) *ChatClient {
	return &ChatClient{cc: cc}
}

func (c *ChatClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *ChatClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	if err := c.invoke(ctx, pingMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChatClient) StartSession(ctx context.Context, in *StartSessionRequest, opts ...grpc.CallOption) (*SessionInfo, error) {
	out := new(SessionInfo)
	if err := c.invoke(ctx, startSessionMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChatClient) SendTurn(ctx context.Context, in *SendTurnRequest, opts ...grpc.CallOption) (*SendTurnResponse, error) {
	out := new(SendTurnResponse)
	if err := c.invoke(ctx, sendTurnMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChatClient) GetTranscript(ctx context.Context, in *GetTranscriptRequest, opts ...grpc.CallOption) (*GetTranscriptResponse, error) {
	out := new(GetTranscriptResponse)
	if err := c.invoke(ctx, getTranscriptMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ChatClient) EndSession(ctx context.Context, in *EndSessionRequest, opts ...grpc.CallOption) (*EndSessionResponse, error) {
	out := new(EndSessionResponse)
	if err := c.invoke(ctx, endSessionMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
