// Package grpc serves chat sessions over gRPC with a JSON codec.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/finassist/internal/assistant/session"
	"github.com/dmitrijs2005/finassist/internal/logging"
	"github.com/dmitrijs2005/finassist/internal/server/auth"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address      string
	sessions     *session.Registry
	orchestrator *session.Orchestrator
	tokens       *auth.TokenService
	logger       logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, sessions *session.Registry, orchestrator *session.Orchestrator, tokens *auth.TokenService) *GRPCServer {
	return &GRPCServer{
		address:      a,
		logger:       l.With("module", "grpc_server"),
		sessions:     sessions,
		orchestrator: orchestrator,
		tokens:       tokens,
	}
}

// newServer creates the gRPC server with the auth interceptor and the chat
// service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	RegisterChatServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
