// Package httpapi exposes accounts, chat sessions and profile memory over
// HTTP using echo.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/finassist/internal/logging"
	"github.com/labstack/echo/v4"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	address string
	echo    *echo.Echo
	logger  logging.Logger
}

// NewServer builds the echo instance with middleware and every route.
func NewServer(address string, h *Handler, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	h.Register(e, opts)

	return &Server{address: address, echo: e, logger: h.logger}
}

// Echo exposes the router, mainly for tests.
func (s *Server) Echo() *echo.Echo { return s.echo }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
