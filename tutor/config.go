package tutor

import (
	"encoding/json"
	"errors"
	"os"
)

// Config holds the service configuration.
type Config struct {
	ServerAddr   string     `json:"server_addr,omitempty"`
	DocumentsDir string     `json:"documents_dir"`
	LLM          *LLMConfig `json:"llm,omitempty"`
	// APITokens maps bearer tokens to user names. Empty means open access
	// with every caller treated as the local user.
	APITokens map[string]string `json:"api_tokens,omitempty"`
}

// LLMConfig is the model configuration block.
type LLMConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.DocumentsDir == "" {
		return Config{}, errors.New("config must include documents_dir")
	}
	return cfg, nil
}
