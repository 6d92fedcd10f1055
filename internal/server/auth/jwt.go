// Package auth issues and validates signed session tokens and locates them in
// incoming requests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Token is a freshly issued session token.
type Token struct {
	Value     string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService signs HS256 tokens with a process-wide secret fixed at
// construction time.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	maxTTL time.Duration
	now    func() time.Time
}

// NewTokenService returns a service issuing tokens valid for ttl by default
// and never longer than maxTTL. A non-positive maxTTL means no ceiling.
func NewTokenService(secret []byte, ttl, maxTTL time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl, maxTTL: maxTTL, now: time.Now}
}

// TTL is the default token lifetime; cookies use it as their max age.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject with the default lifetime.
func (s *TokenService) Issue(subject string) (*Token, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL signs a token for subject valid for ttl.
func (s *TokenService) IssueWithTTL(subject string, ttl time.Duration) (*Token, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: empty subject", common.ErrorValidation)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: non-positive ttl", common.ErrorValidation)
	}
	if s.maxTTL > 0 && ttl > s.maxTTL {
		return nil, common.ErrTTLExceedsMax
	}

	// JWT NumericDate has second precision.
	iat := s.now().Truncate(time.Second)
	exp := iat.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Token{Value: signed, Subject: subject, IssuedAt: iat, ExpiresAt: exp}, nil
}

// Validate verifies the signature and expiry of tokenString and returns its
// subject. Bad signatures and malformed tokens yield common.ErrInvalidToken;
// well-signed tokens past their expiry yield common.ErrTokenExpired.
func (s *TokenService) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
