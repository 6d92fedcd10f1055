// Package chat is the terminal client: a line-based conversation with the
// assistant, either in-process or through a running server's gRPC surface.
package chat

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/finassist/internal/assistant"
	"github.com/dmitrijs2005/finassist/internal/logging"
	"github.com/dmitrijs2005/finassist/internal/server/config"
	gs "github.com/dmitrijs2005/finassist/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const endSessionTimeout = 5 * time.Second

type App struct {
	config *config.Config
	opts   Options
	logger logging.Logger
	in     io.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config, opts Options) *App {
	return &App{
		config: cfg,
		opts:   opts,
		logger: logging.New(cfg.Environment, os.Stderr).With("module", "chat"),
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// Run starts the conversation and blocks until the user leaves.
func (app *App) Run(ctx context.Context) error {
	interactive := stdinIsTerminal()

	conv, closeFn, err := app.conversation(ctx, interactive)
	if err != nil {
		return err
	}
	defer closeFn()

	if interactive {
		fmt.Fprintf(app.out, "FinAssist (profile %q, persona %s). Type 'exit' to leave.\n", app.opts.ProfileID, app.opts.Persona)
	}
	return runREPL(ctx, conv, app.in, app.out, interactive)
}

func (app *App) conversation(ctx context.Context, interactive bool) (Conversation, func(), error) {
	if app.opts.Server != "" {
		return app.remote(ctx, interactive)
	}

	if app.config.OpenAIAPIKey == "" && app.config.OpenAIBaseURL == "" && interactive {
		key, err := askSecret(app.out, "OpenAI API key (empty to continue without): ")
		if err != nil {
			return nil, nil, err
		}
		app.config.OpenAIAPIKey = key
	}

	a, err := assistant.New(ctx, app.config, app.logger)
	if err != nil {
		return nil, nil, err
	}
	return newLocalConversation(a.Orchestrator, app.opts), func() {}, nil
}

func (app *App) remote(ctx context.Context, interactive bool) (Conversation, func(), error) {
	token := app.opts.Token
	if token == "" && interactive {
		var err error
		if token, err = askSecret(app.out, "Access token: "); err != nil {
			return nil, nil, err
		}
	}

	conn, err := grpc.NewClient(app.opts.Server, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}

	conv, err := newRemoteConversation(ctx, gs.NewChatClient(conn), token, app.opts)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("start session: %w", err)
	}
	return conv, func() {
		endCtx, cancel := context.WithTimeout(context.Background(), endSessionTimeout)
		defer cancel()
		if err := conv.End(endCtx); err != nil {
			app.logger.Warn(endCtx, "could not end the server session", "error", err)
		}
		_ = conn.Close()
	}, nil
}
