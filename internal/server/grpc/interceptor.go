package grpc

import (
	"context"

	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/dmitrijs2005/finassist/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const subjectKey ctxKey = "subject"

func firstValue(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

// accessTokenInterceptor authenticates every call except Ping and puts the
// token subject on the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if info.FullMethod == pingMethod {
		return handler(ctx, req)
	}

	var creds auth.Credentials
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		creds.Transport = firstValue(md, common.AccessTokenHeaderName)
		creds.Authorization = firstValue(md, common.AuthorizationHeaderName)
	}

	out := s.tokens.Authenticate(creds)
	if !out.Authenticated() {
		s.logger.Debug(ctx, "authentication failed", "method", info.FullMethod, "reason", out.Err)
		return nil, status.Error(codes.Unauthenticated, "not authenticated")
	}

	ctx = context.WithValue(ctx, subjectKey, out.Subject)

	return handler(ctx, req)
}

func subjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}
