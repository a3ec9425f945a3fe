// Package config loads runtime settings for the dermascan CLI. Sources are
// layered: built-in defaults, then .env/environment variables, then an
// optional JSON file (-c/-config), then command-line flags. Later sources win.
package config

import "time"

// Config holds runtime settings for the dermascan CLI.
//
// AnalyzeTimeout bounds the whole inference upload; the deployed endpoint can
// take several seconds per image, so keep it generous.
type Config struct {
	InferenceURL   string        `envconfig:"INFERENCE_URL"`
	ChatURL        string        `envconfig:"CHAT_URL"`
	ChatAPIKey     string        `envconfig:"CHAT_API_KEY"`
	ChatModel      string        `envconfig:"CHAT_MODEL"`
	DatabasePath   string        `envconfig:"DATABASE_PATH"`
	AnalyzeTimeout time.Duration `envconfig:"ANALYZE_TIMEOUT"`
	ChatTimeout    time.Duration `envconfig:"CHAT_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.InferenceURL = "http://127.0.0.1:5000/predict"
	c.ChatURL = "https://openrouter.ai/api/v1/chat/completions"
	c.ChatModel = "mistral/mistral-7b-instruct"
	c.DatabasePath = "dermascan.db"
	c.AnalyzeTimeout = 15 * time.Second
	c.ChatTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays environment
// variables, JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
