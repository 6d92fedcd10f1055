// Package inference hides the language model behind a single Generate call.
package inference

import (
	"context"
	"errors"
)

// Params tune one generation call.
type Params struct {
	MaxTokens         int
	Temperature       float32
	TopP              float32
	RepetitionPenalty float32
	// Seed makes sampling reproducible when the backend supports it. Zero
	// leaves it unset.
	Seed int
}

// DefaultParams are the generation settings used unless configured otherwise.
func DefaultParams() Params {
	return Params{MaxTokens: 1024, Temperature: 0.7, TopP: 0.9, RepetitionPenalty: 1.1, Seed: 42}
}

// Engine produces an assistant reply for one user message.
type Engine interface {
	Generate(ctx context.Context, system, user string, p Params) (string, error)
}

// ErrEmptyReply is returned when the backend answers without any content.
var ErrEmptyReply = errors.New("empty reply")
