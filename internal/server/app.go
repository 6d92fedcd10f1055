// Package server wires configuration, storage, the assistant and the HTTP
// and gRPC surfaces into one process.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/finassist/internal/assistant"
	"github.com/dmitrijs2005/finassist/internal/assistant/session"
	"github.com/dmitrijs2005/finassist/internal/logging"
	"github.com/dmitrijs2005/finassist/internal/server/auth"
	"github.com/dmitrijs2005/finassist/internal/server/config"
	"github.com/dmitrijs2005/finassist/internal/server/httpapi"
	"github.com/dmitrijs2005/finassist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/finassist/internal/server/services"

	gs "github.com/dmitrijs2005/finassist/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
	sessions   *session.Registry
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(c.Environment, os.Stdout)

	generated, err := c.EnsureSecret()
	if err != nil {
		return nil, fmt.Errorf("secret init error: %w", err)
	}
	if generated {
		logger.Warn(ctx, "no secret key configured, using a random one; tokens will not survive a restart")
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	a, err := assistant.New(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("assistant init error: %w", err)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.AccessTokenValidityDuration, c.MaxAccessTokenValidityDuration)
	accounts := services.NewUserService(db, rm, tokens, c.BcryptCost)
	sessions := session.NewRegistry()

	h := httpapi.NewHandler(accounts, tokens, sessions, a.Orchestrator, a.Memory, logger, c.IsProduction())
	httpServer := httpapi.NewServer(c.EndpointAddrHTTP, h, httpapi.Options{
		AllowedOrigins: c.AllowedOrigins,
		AuthRateLimit:  c.AuthRateLimit,
		SecureCookies:  c.IsProduction(),
	})
	grpcServer := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, sessions, a.Orchestrator, tokens)

	return &App{config: c, logger: logger, db: db, httpServer: httpServer, grpcServer: grpcServer, sessions: sessions}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// serve runs one surface and cancels the whole app if it fails.
func (app *App) serve(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "server", name, "error", err)
		cancelFunc()
	}
}

// sweepInterval bounds how often idle sessions are looked for; short idle
// timeouts are checked more often.
func sweepInterval(idle time.Duration) time.Duration {
	return max(min(idle/2, time.Minute), time.Millisecond)
}

// sweepSessions drops idle chat sessions until ctx is done.
func sweepSessions(ctx context.Context, sessions *session.Registry, idle time.Duration, logger logging.Logger) {
	ticker := time.NewTicker(sweepInterval(idle))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.EvictIdle(idle); n > 0 {
				logger.Info(ctx, "idle chat sessions dropped", "count", n, "remaining", sessions.Len())
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "http", app.httpServer.Run)
	}()
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "grpc", app.grpcServer.Run)
	}()

	if idle := app.config.SessionIdleTimeout; idle > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sweepSessions(ctx, app.sessions, idle, app.logger)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
