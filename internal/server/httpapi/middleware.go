package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/finassist/internal/logging"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const subjectKey = "auth.subject"

// requestID tags every request with an id and puts it on the request
// context so log records carry it.
func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), id)))
		},
	})
}

func requestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				args = append(args, "error", v.Error)
			}
			logger.Info(c.Request().Context(), "request", args...)
			return nil
		},
	})
}

// authRateLimit allows perMinute requests per client IP, with bursts of the
// same size.
func authRateLimit(perMinute int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, errorResponse{Status: "error", Message: "Too many requests"})
		},
	})
}

// requireAuth rejects requests without a valid token with 401 and stores the
// token subject for the handlers.
func (h *Handler) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		out := h.tokens.Authenticate(credentials(c))
		if !out.Authenticated() {
			h.logger.Debug(c.Request().Context(), "authentication failed", "path", c.Path(), "reason", out.Err)
			return c.JSON(http.StatusUnauthorized, errorResponse{Status: "error", Message: "Not authenticated"})
		}
		c.Set(subjectKey, out.Subject)
		return next(c)
	}
}

func subject(c echo.Context) string {
	s, _ := c.Get(subjectKey).(string)
	return s
}
