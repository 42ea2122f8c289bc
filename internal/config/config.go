package config

import (
	"os"
	"strings"
)

// Defaults for the upstream gateway.
const (
	DefaultServerPort  = ":8080"
	DefaultUpstreamURL = "https://ai.gateway.lovable.dev/v1/chat/completions"
	DefaultModel       = "google/gemini-2.5-flash"
)

// APIKeyEnv is the environment variable holding the upstream credential.
// The key is never read from the config file.
const APIKeyEnv = "AI_GATEWAY_API_KEY"

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// UpstreamURL is the chat-completion endpoint requests are forwarded to
	UpstreamURL string

	// Model is the fixed model identifier sent upstream
	Model string

	// APIKey authenticates against the upstream gateway
	APIKey string

	// SystemPromptFile optionally replaces the built-in persona prompt
	SystemPromptFile string

	LogLevel  string
	LogFormat string

	// EnableUsageLog records every chat request in the SQLite ledger
	EnableUsageLog bool

	// AdminTokenHash is an argon2id hash; empty disables the admin API
	AdminTokenHash string
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values.
func Load() *Config {
	fileConfig, err := LoadFile()
	if err != nil {
		fileConfig = &FileConfig{} // Unreadable file falls back to defaults
	}

	return &Config{
		ServerPort:       getEnvOrFile("SERVER_PORT", fileConfig.ServerPort, DefaultServerPort),
		UpstreamURL:      getEnvOrFile("AI_GATEWAY_URL", fileConfig.UpstreamURL, DefaultUpstreamURL),
		Model:            getEnvOrFile("AI_MODEL", fileConfig.Model, DefaultModel),
		APIKey:           strings.TrimSpace(os.Getenv(APIKeyEnv)),
		SystemPromptFile: getEnvOrFile("SYSTEM_PROMPT_FILE", fileConfig.SystemPromptFile, ""),
		LogLevel:         getEnvOrFile("LOG_LEVEL", fileConfig.LogLevel, "info"),
		LogFormat:        getEnvOrFile("LOG_FORMAT", fileConfig.LogFormat, "text"),
		EnableUsageLog:   getEnvBoolOrFile("ENABLE_USAGE_LOG", fileConfig.EnableUsageLog, true),
		AdminTokenHash:   getEnvOrFile("ADMIN_TOKEN_HASH", fileConfig.AdminTokenHash, ""),
	}
}

// Validate checks required fields. A missing API key is reported as a
// *MissingFieldError so callers can tell it apart from request failures.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &MissingFieldError{Field: APIKeyEnv}
	}
	return nil
}

// AdminEnabled reports whether the admin API should be mounted.
func (c *Config) AdminEnabled() bool {
	return c.AdminTokenHash != ""
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}
