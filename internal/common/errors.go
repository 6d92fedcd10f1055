// Package common defines shared constants and sentinel errors used across
// FinAssist components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrDuplicateIdentity = errors.New("email already registered")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("not authenticated")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")
	ErrUserInactive   = errors.New("user is inactive")

	// Token discovery and validation. All of them are reported to callers as
	// ErrorUnauthorized; the specific value is only used for logging.
	ErrNoToken             = errors.New("no token found")
	ErrMalformedAuthHeader = errors.New("malformed authorization header")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrTTLExceedsMax       = errors.New("token ttl exceeds configured maximum")

	// Assistant errors.
	ErrMalformedDirective = errors.New("malformed directive")
	ErrCorruptState       = errors.New("corrupt memory state")
	ErrInferenceFailure   = errors.New("inference failure")
	ErrExportDisabled     = errors.New("export is not configured")
)
