package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/finassist/internal/assistant/commands"
	"github.com/dmitrijs2005/finassist/internal/assistant/session"
	"github.com/dmitrijs2005/finassist/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) StartSession(ctx context.Context, req *StartSessionRequest) (*SessionInfo, error) {
	sess := s.sessions.CreateFor(subjectFromContext(ctx), strings.TrimSpace(req.ProfileID), strings.TrimSpace(req.Persona))
	s.logger.Info(ctx, "chat session started", "session", sess.ID(), "profile", sess.ProfileID())

	return &SessionInfo{
		SessionID:   sess.ID(),
		ProfileID:   sess.ProfileID(),
		Persona:     sess.Persona(),
		CurrentPage: sess.CurrentPage(),
	}, nil
}

func (s *GRPCServer) SendTurn(ctx context.Context, req *SendTurnRequest) (*SendTurnResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, status.Error(codes.InvalidArgument, "message is required")
	}

	sess, err := s.ownedSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	res := s.orchestrator.HandleTurn(ctx, sess, commands.ParseChannel(req.Channel), req.Message)

	return &SendTurnResponse{
		SessionID:   sess.ID(),
		Reply:       res.Reply,
		Handled:     res.Handled,
		Failed:      res.Failed,
		CurrentPage: res.Page,
	}, nil
}

func (s *GRPCServer) GetTranscript(ctx context.Context, req *GetTranscriptRequest) (*GetTranscriptResponse, error) {
	sess, err := s.ownedSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	return &GetTranscriptResponse{
		SessionID:   sess.ID(),
		CurrentPage: sess.CurrentPage(),
		Turns:       sess.Transcript(),
	}, nil
}

func (s *GRPCServer) EndSession(ctx context.Context, req *EndSessionRequest) (*EndSessionResponse, error) {
	sess, err := s.ownedSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	s.sessions.Delete(sess.ID())
	s.logger.Info(ctx, "chat session ended", "session", sess.ID())

	return &EndSessionResponse{Status: "OK"}, nil
}

// ownedSession returns NotFound both for unknown ids and for sessions of
// other users.
func (s *GRPCServer) ownedSession(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.NotFound, "session not found")
		}
		s.logger.Error(ctx, "session lookup failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	if sess.Owner() != subjectFromContext(ctx) {
		return nil, status.Error(codes.NotFound, "session not found")
	}
	return sess, nil
}
