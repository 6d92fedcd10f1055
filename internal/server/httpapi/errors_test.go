package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/finassist/internal/assistant/speech"
	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", fmt.Errorf("%w: bad email", common.ErrorValidation), http.StatusBadRequest},
		{"duplicate", common.ErrDuplicateIdentity, http.StatusConflict},
		{"inactive", common.ErrUserInactive, http.StatusUnauthorized},
		{"unauthorized", common.ErrorUnauthorized, http.StatusUnauthorized},
		{"not found", common.ErrorNotFound, http.StatusNotFound},
		{"forbidden", common.ErrorForbidden, http.StatusForbidden},
		{"no speech", speech.ErrNoSpeech, http.StatusUnprocessableEntity},
		{"voice disabled", speech.ErrDisabled, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := statusFor(tt.err)
			assert.Equal(t, tt.want, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestStatusFor_HidesInternalDetails(t *testing.T) {
	_, msg := statusFor(fmt.Errorf("db error: %w", errors.New("password=secret")))
	assert.Equal(t, "Internal server error", msg)

	code, msg := statusFor(fmt.Errorf("%w: issue token: %v", common.ErrorInternal, "non-positive ttl"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", msg)
}
