package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ServerPort       string `toml:"server_port"`
	UpstreamURL      string `toml:"upstream_url"`
	Model            string `toml:"model"`
	SystemPromptFile string `toml:"system_prompt_file"`
	LogLevel         string `toml:"log_level"`
	LogFormat        string `toml:"log_format"`
	EnableUsageLog   *bool  `toml:"enable_usage_log"`
	AdminTokenHash   string `toml:"admin_token_hash"`
}

// ConfigPath returns the path to the config file. CHATRELAY_CONFIG
// overrides the default ~/.chatrelay/config.toml.
func ConfigPath() string {
	if p := os.Getenv("CHATRELAY_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	return loadFileFrom(ConfigPath())
}

func loadFileFrom(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	defaultConfig := `# chatrelay configuration
# The upstream credential is read from the AI_GATEWAY_API_KEY environment
# variable only and never from this file.

# server_port = ":8080"
# upstream_url = "https://ai.gateway.lovable.dev/v1/chat/completions"
# model = "google/gemini-2.5-flash"

# Replace the built-in assistant persona
# system_prompt_file = "/etc/chatrelay/persona.txt"

# log_level = "info"   # debug, info, warn, error
# log_format = "text"  # text or json

# enable_usage_log = true

# Enables /api/admin/*. Generate with: chatrelay hash-token
# admin_token_hash = "$argon2id$v=19$m=65536,t=1,p=4$..."
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
