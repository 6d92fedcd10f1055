package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/finassist/internal/flagx"
	"github.com/dmitrijs2005/finassist/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "30m" strings and integer nanoseconds. Zero values leave the current
// setting untouched.
type JsonConfig struct {
	EndpointAddrHTTP               string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC               string         `json:"endpoint_addr_grpc"`
	Environment                    string         `json:"environment"`
	DatabaseDSN                    string         `json:"database_dsn"`
	SecretKey                      string         `json:"secret_key"`
	AccessTokenValidityDuration    timex.Duration `json:"access_token_validity_duration"`
	MaxAccessTokenValidityDuration timex.Duration `json:"max_access_token_validity_duration"`
	BcryptCost                     int            `json:"bcrypt_cost"`
	AllowedOrigins                 []string       `json:"allowed_origins"`
	AuthRateLimit                  int            `json:"auth_rate_limit"`
	SessionIdleTimeout             timex.Duration `json:"session_idle_timeout"`
	MemoryFile                     string         `json:"memory_file"`
	OpenAIAPIKey                   string         `json:"openai_api_key"`
	OpenAIBaseURL                  string         `json:"openai_base_url"`
	Model                          string         `json:"model"`
	MaxTokens                      int            `json:"max_tokens"`
	Temperature                    float64        `json:"temperature"`
	TopP                           float64        `json:"top_p"`
	RepetitionPenalty              float64        `json:"repetition_penalty"`
	InferenceTimeout               timex.Duration `json:"inference_timeout"`
	TranscriptionModel             string         `json:"transcription_model"`
	SpeechModel                    string         `json:"speech_model"`
	SpeechVoice                    string         `json:"speech_voice"`
	SpeechLanguage                 string         `json:"speech_language"`
	SlowSpeech                     bool           `json:"slow_speech"`
	S3AccessKey                    string         `json:"s3_access_key"`
	S3SecretKey                    string         `json:"s3_secret_key"`
	S3Bucket                       string         `json:"s3_bucket"`
	S3Region                       string         `json:"s3_region"`
	S3BaseEndpoint                 string         `json:"s3_base_endpoint"`
}

// parseJSON overlays values from the file named by -c/-config in args.
// Without the flag nothing is loaded.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.Environment, c.Environment)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.MaxAccessTokenValidityDuration.Duration > 0 {
		config.MaxAccessTokenValidityDuration = c.MaxAccessTokenValidityDuration.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.AuthRateLimit > 0 {
		config.AuthRateLimit = c.AuthRateLimit
	}
	if c.SessionIdleTimeout.Duration > 0 {
		config.SessionIdleTimeout = c.SessionIdleTimeout.Duration
	}
	setString(&config.MemoryFile, c.MemoryFile)
	setString(&config.OpenAIAPIKey, c.OpenAIAPIKey)
	setString(&config.OpenAIBaseURL, c.OpenAIBaseURL)
	setString(&config.Model, c.Model)
	if c.MaxTokens > 0 {
		config.MaxTokens = c.MaxTokens
	}
	if c.Temperature > 0 {
		config.Temperature = c.Temperature
	}
	if c.TopP > 0 {
		config.TopP = c.TopP
	}
	if c.RepetitionPenalty > 0 {
		config.RepetitionPenalty = c.RepetitionPenalty
	}
	if c.InferenceTimeout.Duration > 0 {
		config.InferenceTimeout = c.InferenceTimeout.Duration
	}
	setString(&config.TranscriptionModel, c.TranscriptionModel)
	setString(&config.SpeechModel, c.SpeechModel)
	setString(&config.SpeechVoice, c.SpeechVoice)
	setString(&config.SpeechLanguage, c.SpeechLanguage)
	if c.SlowSpeech {
		config.SlowSpeech = true
	}
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
