// Package speech converts audio to text and text to audio.
package speech

import (
	"context"
	"errors"
	"maps"
	"slices"
)

var (
	// ErrNoSpeech means the audio contained nothing intelligible.
	ErrNoSpeech = errors.New("no speech recognized")
	// ErrUnsupportedLanguage is returned for a language missing from Languages.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrDisabled is returned when no speech backend is configured.
	ErrDisabled = errors.New("speech is not configured")
)

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

type Synthesizer interface {
	// Synthesize renders text as MP3 audio. slow lowers the speaking rate.
	Synthesize(ctx context.Context, text, language string, slow bool) ([]byte, error)
}

// DefaultLanguage is used when the caller does not pick one.
const DefaultLanguage = "en"

var languages = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"hi": "Hindi",
	"ar": "Arabic",
}

// Languages returns the supported synthesis languages keyed by ISO 639-1 code.
func Languages() map[string]string {
	return maps.Clone(languages)
}

// LanguageCodes returns the supported codes sorted.
func LanguageCodes() []string {
	return slices.Sorted(maps.Keys(languages))
}

// Supported reports whether code is in Languages.
func Supported(code string) bool {
	_, ok := languages[code]
	return ok
}
