package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/dmitrijs2005/finassist/internal/server/models"
	"github.com/labstack/echo/v4"
)

type signupRequest struct {
	FullName string `json:"fullname" form:"fullname"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type updateMeRequest struct {
	FullName *string `json:"fullname" form:"fullname"`
}

type userView struct {
	Email    string `json:"email"`
	FullName string `json:"fullname"`
	IsActive bool   `json:"is_active"`
}

func viewOf(u *models.User) userView {
	return userView{Email: u.Email, FullName: u.FullName, IsActive: u.IsActive}
}

func (h *Handler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, common.ErrorValidation)
	}

	user, tok, err := h.accounts.Signup(c.Request().Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}

	setAuthCookies(c, tok, h.tokens.TTL(), h.secureCookies)
	h.logger.Info(c.Request().Context(), "user signed up", "user_id", user.ID)

	return c.JSON(http.StatusCreated, map[string]any{"status": "success", "user": viewOf(user)})
}

// Login accepts the address either as "email" or, for form posts from the
// login page, as "username".
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, common.ErrorValidation)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = strings.TrimSpace(req.Username)
	}

	user, tok, err := h.accounts.Login(c.Request().Context(), email, req.Password)
	if err != nil {
		return h.respondError(c, err)
	}

	setAuthCookies(c, tok, h.tokens.TTL(), h.secureCookies)

	return c.JSON(http.StatusOK, map[string]any{"status": "success", "user": viewOf(user)})
}

// Logout only drops the cookies; tokens are stateless.
func (h *Handler) Logout(c echo.Context) error {
	clearAuthCookies(c, h.secureCookies)
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (h *Handler) Me(c echo.Context) error {
	user, err := h.accounts.CurrentUser(c.Request().Context(), subject(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "success", "data": viewOf(user)})
}

func (h *Handler) UpdateMe(c echo.Context) error {
	var req updateMeRequest
	if err := c.Bind(&req); err != nil {
		return h.respondError(c, common.ErrorValidation)
	}

	user, err := h.accounts.UpdateUser(c.Request().Context(), subject(c), models.UserUpdate{FullName: req.FullName})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "success", "data": viewOf(user)})
}
