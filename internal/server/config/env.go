package config

// envBindings maps environment variables onto Config fields.
var envBindings = map[string]func(*Config, string){
	"ENV":             func(c *Config, v string) { c.Environment = v },
	"SECRET_KEY":      func(c *Config, v string) { c.SecretKey = v },
	"DATABASE_DSN":    func(c *Config, v string) { c.DatabaseDSN = v },
	"MEMORY_FILE":     func(c *Config, v string) { c.MemoryFile = v },
	"OPENAI_API_KEY":  func(c *Config, v string) { c.OpenAIAPIKey = v },
	"OPENAI_BASE_URL": func(c *Config, v string) { c.OpenAIBaseURL = v },
	"S3_ACCESS_KEY":   func(c *Config, v string) { c.S3AccessKey = v },
	"S3_SECRET_KEY":   func(c *Config, v string) { c.S3SecretKey = v },
	"S3_BUCKET":       func(c *Config, v string) { c.S3Bucket = v },
	"SPEECH_LANGUAGE": func(c *Config, v string) { c.SpeechLanguage = v },
}

func parseEnv(config *Config, lookupEnv func(string) (string, bool)) {
	if lookupEnv == nil {
		return
	}
	for name, apply := range envBindings {
		if v, ok := lookupEnv(name); ok && v != "" {
			apply(config, v)
		}
	}
}
