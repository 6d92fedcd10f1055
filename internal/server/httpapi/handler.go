package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/finassist/internal/assistant/session"
	"github.com/dmitrijs2005/finassist/internal/logging"
	"github.com/dmitrijs2005/finassist/internal/server/auth"
	"github.com/dmitrijs2005/finassist/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// AccountService is the account logic the handlers call.
type AccountService interface {
	Signup(ctx context.Context, fullName, email, password string) (*models.User, *auth.Token, error)
	Login(ctx context.Context, email, password string) (*models.User, *auth.Token, error)
	CurrentUser(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, email string, upd models.UserUpdate) (*models.User, error)
}

// MemoryStore is the read and reset access to profile memory.
type MemoryStore interface {
	GetAll(profileID string) map[string]string
	Clear(profileID string) error
}

type Options struct {
	AllowedOrigins []string
	// AuthRateLimit is the per-IP budget of /signup and /login requests per
	// minute. Zero disables limiting.
	AuthRateLimit int
	// SecureCookies marks cookies Secure; set in production.
	SecureCookies bool
}

type Handler struct {
	accounts      AccountService
	tokens        *auth.TokenService
	sessions      *session.Registry
	orchestrator  *session.Orchestrator
	memory        MemoryStore
	logger        logging.Logger
	secureCookies bool
}

func NewHandler(accounts AccountService, tokens *auth.TokenService, sessions *session.Registry,
	orchestrator *session.Orchestrator, memory MemoryStore, logger logging.Logger, secureCookies bool) *Handler {
	return &Handler{
		accounts:      accounts,
		tokens:        tokens,
		sessions:      sessions,
		orchestrator:  orchestrator,
		memory:        memory,
		logger:        logger.With("module", "http"),
		secureCookies: secureCookies,
	}
}

// Register installs middleware and routes on e.
func (h *Handler) Register(e *echo.Echo, opts Options) {
	h.secureCookies = h.secureCookies || opts.SecureCookies

	e.Use(requestID())
	e.Use(requestLogger(h.logger))
	e.Use(middleware.Recover())
	if len(opts.AllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     opts.AllowedOrigins,
			AllowCredentials: true,
		}))
	}

	e.GET("/ping", h.Ping)

	var authMW []echo.MiddlewareFunc
	if opts.AuthRateLimit > 0 {
		authMW = append(authMW, authRateLimit(opts.AuthRateLimit))
	}
	e.POST("/signup", h.Signup, authMW...)
	e.POST("/login", h.Login, authMW...)
	e.GET("/logout", h.Logout)
	e.POST("/logout", h.Logout)

	api := e.Group("/api", h.requireAuth)
	api.GET("/user/me", h.Me)
	api.PATCH("/user/me", h.UpdateMe)

	api.POST("/chat/sessions", h.CreateSession)
	api.GET("/chat/sessions/:id", h.GetSession)
	api.DELETE("/chat/sessions/:id", h.EndSession)
	api.POST("/chat/sessions/:id/turns", h.SendTurn)
	api.POST("/chat/sessions/:id/voice", h.SendVoice)

	api.GET("/memory/:profile", h.GetMemory)
	api.DELETE("/memory/:profile", h.ClearMemory)
}

func (h *Handler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}
