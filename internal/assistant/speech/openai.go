package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	normalSpeed = 1.0
	slowSpeed   = 0.75
)

// OpenAI implements Transcriber with Whisper and Synthesizer with the TTS
// endpoint.
type OpenAI struct {
	client             *openai.Client
	transcriptionModel string
	speechModel        openai.SpeechModel
	voice              openai.SpeechVoice
	language           string
}

type OpenAIOptions struct {
	APIKey             string
	BaseURL            string
	TranscriptionModel string
	SpeechModel        string
	Voice              string
	// Language is the ISO 639-1 code Whisper is told to expect. Empty lets it
	// detect the language.
	Language string
}

func NewOpenAI(o OpenAIOptions) *OpenAI {
	cfg := openai.DefaultConfig(o.APIKey)
	if o.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(o.BaseURL, "/")
	}

	s := &OpenAI{
		client:             openai.NewClientWithConfig(cfg),
		transcriptionModel: o.TranscriptionModel,
		speechModel:        openai.SpeechModel(o.SpeechModel),
		voice:              openai.SpeechVoice(o.Voice),
		language:           o.Language,
	}
	if s.transcriptionModel == "" {
		s.transcriptionModel = openai.Whisper1
	}
	if s.speechModel == "" {
		s.speechModel = openai.TTSModel1
	}
	if s.voice == "" {
		s.voice = openai.VoiceAlloy
	}
	return s
}

func (s *OpenAI) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", ErrNoSpeech
	}

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    s.transcriptionModel,
		FilePath: "speech.wav",
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatJSON,
		Language: s.language,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// Synthesize has no language field to send: the TTS endpoint reads the
// language from the input text. language is still checked so an unsupported
// code fails before any request is made.
func (s *OpenAI) Synthesize(ctx context.Context, text, language string, slow bool) ([]byte, error) {
	if language == "" {
		language = DefaultLanguage
	}
	if !Supported(language) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}

	speed := normalSpeed
	if slow {
		speed = slowSpeed
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.speechModel,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          speed,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	defer resp.Close()

	return io.ReadAll(resp)
}
