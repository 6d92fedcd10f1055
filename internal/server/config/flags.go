package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/finassist/internal/flagx"
)

// ownFlags lists the flags parsed here; everything else in os.Args belongs to
// the binary (for example cmd/chat's -profile).
var ownFlags = flagx.Spec{
	"a": true, "grpc": true, "d": true, "s": true, "t": true, "e": true,
	"f": true, "model": true, "openai-url": true, "inference-timeout": true,
	"s3-bucket": true, "s3-region": true, "s3-endpoint": true,
	"lang": true, "slow": false, "session-idle": true,
}

// parseFlags populates Config fields from command-line flags.
//
//	-a string              HTTP bind address (e.g. ":8000")
//	-grpc string           gRPC bind address (e.g. ":50051")
//	-d string              PostgreSQL DSN
//	-s string              token HMAC secret
//	-t int                 token validity, minutes
//	-e string              environment ("production" enables Secure cookies)
//	-f string              memory file path
//	-model string          inference model
//	-openai-url string     OpenAI-compatible base URL
//	-inference-timeout dur orchestrator timeout around the model call
//	-s3-bucket/-s3-region/-s3-endpoint  export storage
//	-lang string           TTS language code
//	-slow                  slower synthesized speech
//	-session-idle dur      drop chat sessions idle this long (0 keeps them)
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("finassist", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port of the HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "grpc", config.EndpointAddrGRPC, "address and port of the gRPC server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	ttl := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment")
	fs.StringVar(&config.MemoryFile, "f", config.MemoryFile, "memory file")
	fs.StringVar(&config.Model, "model", config.Model, "inference model")
	fs.StringVar(&config.OpenAIBaseURL, "openai-url", config.OpenAIBaseURL, "OpenAI-compatible base URL")
	fs.DurationVar(&config.InferenceTimeout, "inference-timeout", config.InferenceTimeout, "inference timeout")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket for exports")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.SpeechLanguage, "lang", config.SpeechLanguage, "speech language")
	fs.BoolVar(&config.SlowSpeech, "slow", config.SlowSpeech, "slow speech")
	fs.DurationVar(&config.SessionIdleTimeout, "session-idle", config.SessionIdleTimeout, "idle chat session lifetime")

	if err := fs.Parse(flagx.Filter(args, ownFlags)); err != nil {
		return err
	}

	// -t only overrides the TTL when given; its default is rounded to minutes.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
