package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/finassist/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 24*time.Hour, c.MaxAccessTokenValidityDuration)
	assert.Equal(t, "memories.json", c.MemoryFile)
	assert.Equal(t, 1024, c.MaxTokens)
	assert.Equal(t, 0.7, c.Temperature)
	assert.Equal(t, 0.9, c.TopP)
	assert.Equal(t, 1.1, c.RepetitionPenalty)
	assert.Equal(t, 60*time.Second, c.InferenceTimeout)
	assert.Empty(t, c.SecretKey)
	assert.Empty(t, c.S3Bucket)
	assert.False(t, c.IsProduction())
}

func TestLoad_DefaultsOnly(t *testing.T) {
	c, err := Load(nil, envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":             ":9000",
		"environment":                    "staging",
		"secret_key":                     "from-json",
		"access_token_validity_duration": "15m",
		"memory_file":                    "json-memories.json",
		"inference_timeout":              "5s",
		"s3_bucket":                      "json-bucket",
		"allowed_origins":                []string{"https://app.example"},
	})

	env := envOf(map[string]string{
		"SECRET_KEY": "from-env",
		"ENV":        "production",
	})

	args := []string{"-c", path, "-f", "flag-memories.json", "-t", "10", "-profile", "alice"}

	c, err := Load(args, env)
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.EndpointAddrHTTP, "json overrides default")
	assert.Equal(t, "from-env", c.SecretKey, "env overrides json")
	assert.Equal(t, "production", c.Environment)
	assert.True(t, c.IsProduction())
	assert.Equal(t, "flag-memories.json", c.MemoryFile, "flag overrides json")
	assert.Equal(t, 10*time.Minute, c.AccessTokenValidityDuration, "flag overrides json")
	assert.Equal(t, 5*time.Second, c.InferenceTimeout)
	assert.Equal(t, "json-bucket", c.S3Bucket)
	assert.Equal(t, []string{"https://app.example"}, c.AllowedOrigins)
	assert.Equal(t, 1024, c.MaxTokens, "zero json values keep defaults")
}

func TestLoad_JSONTokenTTLKeptWithoutFlag(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"access_token_validity_duration": "90s"})

	c, err := Load([]string{"-c", path, "-f", "m.json"}, envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, c.AccessTokenValidityDuration)

	path = writeTempJSON(t, map[string]any{"access_token_validity_duration": "20s"})
	c, err = Load([]string{"-c", path}, envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, c.AccessTokenValidityDuration)
}

func TestLoad_RejectsBadTokenTTL(t *testing.T) {
	tests := []struct {
		name string
		args []string
		json map[string]any
	}{
		{"zero minutes flag", []string{"-t", "0"}, nil},
		{"negative flag", []string{"-t=-5"}, nil},
		{"above maximum", nil, map[string]any{
			"access_token_validity_duration":     "48h",
			"max_access_token_validity_duration": "24h",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			if tt.json != nil {
				args = append(args, "-c", writeTempJSON(t, tt.json))
			}
			_, err := Load(args, envOf(nil))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestLoad_SessionIdleTimeout(t *testing.T) {
	c, err := Load(nil, envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, c.SessionIdleTimeout)

	path := writeTempJSON(t, map[string]any{"session_idle_timeout": "45m"})
	c, err = Load([]string{"-c", path}, envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, c.SessionIdleTimeout)

	c, err = Load([]string{"-c", path, "-session-idle", "0"}, envOf(nil))
	require.NoError(t, err)
	assert.Zero(t, c.SessionIdleTimeout)

	_, err = Load([]string{"-session-idle=-1m"}, envOf(nil))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load([]string{"-config", path}, envOf(nil))
	require.Error(t, err)
}

func TestLoad_MissingJSON(t *testing.T) {
	_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "nope.json")}, envOf(nil))
	require.Error(t, err)
}

func TestLoad_BadFlagValue(t *testing.T) {
	_, err := Load([]string{"-t", "soon"}, envOf(nil))
	require.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	err := parseFlags(c, []string{
		"-a", "127.0.0.1:9090", "-grpc", ":6000", "-d", "db", "-s", "secret", "-t", "45",
		"-e", "production", "-model", "granite", "-openai-url", "http://llm:8080/v1",
		"-inference-timeout", "90s", "-s3-bucket", "exports", "-s3-region", "eu-west-1",
		"-s3-endpoint", "http://minio:9000", "-lang", "fr", "-slow",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", c.EndpointAddrHTTP)
	assert.Equal(t, ":6000", c.EndpointAddrGRPC)
	assert.Equal(t, "db", c.DatabaseDSN)
	assert.Equal(t, "secret", c.SecretKey)
	assert.Equal(t, 45*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, "granite", c.Model)
	assert.Equal(t, "http://llm:8080/v1", c.OpenAIBaseURL)
	assert.Equal(t, 90*time.Second, c.InferenceTimeout)
	assert.Equal(t, "exports", c.S3Bucket)
	assert.Equal(t, "eu-west-1", c.S3Region)
	assert.Equal(t, "http://minio:9000", c.S3BaseEndpoint)
	assert.Equal(t, "fr", c.SpeechLanguage)
	assert.True(t, c.SlowSpeech)
}

func TestEnsureSecret(t *testing.T) {
	c := &Config{}
	generated, err := c.EnsureSecret()
	require.NoError(t, err)
	assert.True(t, generated)
	assert.Len(t, c.SecretKey, 64)

	keep := c.SecretKey
	generated, err = c.EnsureSecret()
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, keep, c.SecretKey)
}
