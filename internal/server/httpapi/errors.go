package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/finassist/internal/assistant/speech"
	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// statusFor maps service errors to a status code and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrDuplicateIdentity):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, common.ErrUserInactive):
		return http.StatusUnauthorized, "Inactive user"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Could not validate credentials"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "Not permitted"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, speech.ErrNoSpeech):
		return http.StatusUnprocessableEntity, "Could not understand the audio. Please try again."
	case errors.Is(err, speech.ErrDisabled):
		return http.StatusServiceUnavailable, "Voice input is not configured"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) respondError(c echo.Context, err error) error {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logger.Error(c.Request().Context(), "request failed", "path", c.Path(), "error", err)
	} else {
		h.logger.Debug(c.Request().Context(), "request rejected", "path", c.Path(), "status", code, "error", err)
	}
	return c.JSON(code, errorResponse{Status: "error", Message: msg})
}
