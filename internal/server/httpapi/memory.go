package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/labstack/echo/v4"
)

// ownedProfile returns the :profile parameter if the caller holds a live
// session on that profile.
func (h *Handler) ownedProfile(c echo.Context) (string, error) {
	profile := c.Param("profile")
	if !h.sessions.OwnsProfile(subject(c), profile) {
		return "", common.ErrorForbidden
	}
	return profile, nil
}

func (h *Handler) GetMemory(c echo.Context) error {
	profile, err := h.ownedProfile(c)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"profile_id": profile,
		"memory":     h.memory.GetAll(profile),
	})
}

func (h *Handler) ClearMemory(c echo.Context) error {
	profile, err := h.ownedProfile(c)
	if err != nil {
		return h.respondError(c, err)
	}
	if err := h.memory.Clear(profile); err != nil {
		return h.respondError(c, err)
	}
	h.logger.Info(c.Request().Context(), "profile memory cleared", "profile", profile)
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}
