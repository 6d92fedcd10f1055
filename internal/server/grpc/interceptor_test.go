package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/finassist/internal/logging"
	"github.com/dmitrijs2005/finassist/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer(secret string) *GRPCServer {
	return NewGRPCServer("", logging.Nop(), nil, nil,
		auth.NewTokenService([]byte(secret), 30*time.Minute, 24*time.Hour))
}

func TestInterceptor_PingAllowsWithoutToken(t *testing.T) {
	s := newTestServer("secret")

	info := &grpc.UnaryServerInfo{FullMethod: pingMethod}
	handlerCalled := false

	h := func(ctx context.Context, req any) (any, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled {
		t.Fatal("handler was not called")
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: sendTurnMethod}

	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestInterceptor_InvalidToken(t *testing.T) {
	s := newTestServer("secret")
	info := &grpc.UnaryServerInfo{FullMethod: startSessionMethod}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("access_token", "not-a-jwt"))
	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called with invalid token")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(ctx, nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestInterceptor_TokenFromOtherSecret(t *testing.T) {
	s := newTestServer("secret")
	other := auth.NewTokenService([]byte("other"), time.Minute, time.Hour)
	tok, err := other.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("access_token", tok.Value))
	_, err = s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: sendTurnMethod},
		func(ctx context.Context, req any) (any, error) { return nil, nil })
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestInterceptor_ValidToken_SetsSubject(t *testing.T) {
	tests := []struct {
		name string
		md   metadata.MD
	}{
		{"access_token metadata", nil},
		{"authorization metadata", nil},
	}

	s := newTestServer("secret")
	tok, err := s.tokens.Issue("alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tests[0].md = metadata.Pairs("access_token", tok.Value)
	tests[1].md = metadata.Pairs("authorization", "Bearer "+tok.Value)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := metadata.NewIncomingContext(context.Background(), tt.md)

			var got string
			h := func(ctx context.Context, req any) (any, error) {
				got = subjectFromContext(ctx)
				return "ok", nil
			}

			if _, err := s.accessTokenInterceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: getTranscriptMethod}, h); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != "alice@example.com" {
				t.Fatalf("subject = %q, want alice@example.com", got)
			}
		})
	}
}
