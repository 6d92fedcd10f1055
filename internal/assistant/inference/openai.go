package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIEngine talks to the OpenAI chat completions API or any compatible
// server reachable at a custom base URL.
type OpenAIEngine struct {
	client *openai.Client
	model  string
}

// NewOpenAIEngine creates an engine for model. An empty baseURL keeps the
// library default.
func NewOpenAIEngine(apiKey, baseURL, model string) *OpenAIEngine {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return NewOpenAIEngineWithClient(openai.NewClientWithConfig(cfg), model)
}

func NewOpenAIEngineWithClient(client *openai.Client, model string) *OpenAIEngine {
	return &OpenAIEngine{client: client, model: model}
}

func (e *OpenAIEngine) Generate(ctx context.Context, system, user string, p Params) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
		TopP:        p.TopP,
		// The API has no multiplicative repetition penalty; 1.0 means off.
		FrequencyPenalty: frequencyPenalty(p.RepetitionPenalty),
	}
	if p.Seed != 0 {
		seed := p.Seed
		req.Seed = &seed
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

func frequencyPenalty(rp float32) float32 {
	if rp <= 1 {
		return 0
	}
	fp := rp - 1
	if fp > 2 {
		fp = 2
	}
	return fp
}
