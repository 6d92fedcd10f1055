// Package assistant assembles the chat pipeline (memory, command router,
// inference engine and speech) from the process configuration.
package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/finassist/internal/assistant/commands"
	"github.com/dmitrijs2005/finassist/internal/assistant/export"
	"github.com/dmitrijs2005/finassist/internal/assistant/inference"
	"github.com/dmitrijs2005/finassist/internal/assistant/memory"
	"github.com/dmitrijs2005/finassist/internal/assistant/session"
	"github.com/dmitrijs2005/finassist/internal/assistant/speech"
	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/dmitrijs2005/finassist/internal/logging"
	"github.com/dmitrijs2005/finassist/internal/server/config"
)

// Assistant bundles the pieces shared by the servers and the local client.
type Assistant struct {
	Memory       *memory.Store
	Orchestrator *session.Orchestrator
}

// hosted reports whether an OpenAI-compatible endpoint is configured.
func hosted(cfg *config.Config) bool {
	return cfg.OpenAIAPIKey != "" || cfg.OpenAIBaseURL != ""
}

// New opens the memory file and builds the orchestrator. A corrupt memory
// file is returned as an error; a missing bucket only disables export.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Assistant, error) {
	if cfg.SpeechLanguage != "" && !speech.Supported(cfg.SpeechLanguage) {
		return nil, fmt.Errorf("%w: %q", speech.ErrUnsupportedLanguage, cfg.SpeechLanguage)
	}

	store, err := memory.Open(cfg.MemoryFile)
	if err != nil {
		return nil, err
	}

	var exporter commands.Exporter
	s3, err := export.NewS3Exporter(ctx, export.Options{
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
	})
	switch {
	case err == nil:
		exporter = s3
	case errors.Is(err, common.ErrExportDisabled):
		logger.Debug(ctx, "memory export disabled, no bucket configured")
	default:
		return nil, err
	}

	opts := session.Options{
		Params: inference.Params{
			MaxTokens:         cfg.MaxTokens,
			Temperature:       float32(cfg.Temperature),
			TopP:              float32(cfg.TopP),
			RepetitionPenalty: float32(cfg.RepetitionPenalty),
			Seed:              inference.DefaultParams().Seed,
		},
		Timeout:    cfg.InferenceTimeout,
		Language:   cfg.SpeechLanguage,
		SlowSpeech: cfg.SlowSpeech,
	}

	var engine inference.Engine
	if hosted(cfg) {
		engine = inference.NewOpenAIEngine(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model)

		voice := speech.NewOpenAI(speech.OpenAIOptions{
			APIKey:             cfg.OpenAIAPIKey,
			BaseURL:            cfg.OpenAIBaseURL,
			TranscriptionModel: cfg.TranscriptionModel,
			SpeechModel:        cfg.SpeechModel,
			Voice:              cfg.SpeechVoice,
			Language:           cfg.SpeechLanguage,
		})
		opts.Transcriber = voice
		opts.Synthesizer = voice
	} else {
		logger.Warn(ctx, "no inference endpoint configured, free-form questions will fail")
	}

	router := commands.NewRouter(store, exporter, logger)

	return &Assistant{
		Memory:       store,
		Orchestrator: session.NewOrchestrator(router, store, engine, logger, opts),
	}, nil
}
