package config

import (
	"encoding/json"
	"os"
	"time"

	"dermascan/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeouts are
// plain seconds so config files stay readable. Absent fields stay zero and
// are not copied, preserving the values from earlier config stages.
type JsonConfig struct {
	InferenceURL          string `json:"inference_url"`
	ChatURL               string `json:"chat_url"`
	ChatAPIKey            string `json:"chat_api_key"`
	ChatModel             string `json:"chat_model"`
	DatabasePath          string `json:"database_path"`
	AnalyzeTimeoutSeconds int    `json:"analyze_timeout_seconds"`
	ChatTimeoutSeconds    int    `json:"chat_timeout_seconds"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when neither is given, nothing is
// loaded. Read or unmarshal errors panic (caller may recover).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.InferenceURL != "" {
		cfg.InferenceURL = jc.InferenceURL
	}
	if jc.ChatURL != "" {
		cfg.ChatURL = jc.ChatURL
	}
	if jc.ChatAPIKey != "" {
		cfg.ChatAPIKey = jc.ChatAPIKey
	}
	if jc.ChatModel != "" {
		cfg.ChatModel = jc.ChatModel
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.AnalyzeTimeoutSeconds > 0 {
		cfg.AnalyzeTimeout = time.Duration(jc.AnalyzeTimeoutSeconds) * time.Second
	}
	if jc.ChatTimeoutSeconds > 0 {
		cfg.ChatTimeout = time.Duration(jc.ChatTimeoutSeconds) * time.Second
	}
}
