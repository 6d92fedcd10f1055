package auth

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/finassist/internal/common"
)

// Credentials are the raw token candidates a transport found on a request.
//
//   - Transport: the explicit bearer credential of the transport layer
//     (the access_token header on HTTP, access_token metadata on gRPC).
//   - Cookie: the access_token cookie, possibly prefixed with "Bearer ".
//   - Authorization: the raw Authorization header value.
type Credentials struct {
	Transport     string
	Cookie        string
	Authorization string
}

// Extract picks the token candidate in strict precedence order: transport
// credential, then cookie, then Authorization header. The header is only
// parsed when the first two are empty; it must read "Bearer <token>" with a
// case-insensitive scheme.
func Extract(c Credentials) (string, error) {
	if t := strings.TrimSpace(c.Transport); t != "" {
		return t, nil
	}

	if t := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(c.Cookie), common.BearerPrefix)); t != "" {
		return t, nil
	}

	header := strings.TrimSpace(c.Authorization)
	if header == "" {
		return "", common.ErrNoToken
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", common.ErrMalformedAuthHeader
	}

	return parts[1], nil
}

// Outcome is the result of authenticating one request.
type Outcome struct {
	Subject string
	// Err is nil when authenticated. Otherwise it wraps both
	// common.ErrorUnauthorized and the specific reason.
	Err error
}

// Authenticated reports whether the request carried a valid token.
func (o Outcome) Authenticated() bool { return o.Err == nil && o.Subject != "" }

// Authenticate runs extraction and a single validation attempt.
func (s *TokenService) Authenticate(c Credentials) Outcome {
	tok, err := Extract(c)
	if err != nil {
		return Outcome{Err: fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)}
	}

	subject, err := s.Validate(tok)
	if err != nil {
		return Outcome{Err: fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)}
	}

	return Outcome{Subject: subject}
}
