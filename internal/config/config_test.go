package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		wantErr bool
	}{
		{name: "key present", apiKey: "sk-test", wantErr: false},
		{name: "key missing", apiKey: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{APIKey: tt.apiKey}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}

			var missing *MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("expected *MissingFieldError, got %T", err)
			}
			if missing.Field != APIKeyEnv {
				t.Errorf("expected field %q, got %q", APIKeyEnv, missing.Field)
			}
			if !errors.Is(err, ErrMissingField) {
				t.Error("expected errors.Is(err, ErrMissingField)")
			}
			if err.Error() != "AI_GATEWAY_API_KEY is not configured" {
				t.Errorf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CHATRELAY_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv(APIKeyEnv, "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("AI_MODEL", "")
	t.Setenv("AI_GATEWAY_URL", "")
	t.Setenv("ENABLE_USAGE_LOG", "")

	cfg := Load()

	if cfg.ServerPort != DefaultServerPort {
		t.Errorf("ServerPort = %q, want %q", cfg.ServerPort, DefaultServerPort)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}
	if cfg.UpstreamURL != DefaultUpstreamURL {
		t.Errorf("UpstreamURL = %q, want %q", cfg.UpstreamURL, DefaultUpstreamURL)
	}
	if !cfg.EnableUsageLog {
		t.Error("expected usage log enabled by default")
	}
	if cfg.AdminEnabled() {
		t.Error("expected admin API disabled without a token hash")
	}
}

func TestLoad_FileAndEnvPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
server_port = ":9090"
model = "file/model"
enable_usage_log = false
admin_token_hash = "$argon2id$stub"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CHATRELAY_CONFIG", path)
	t.Setenv("AI_MODEL", "env/model")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ENABLE_USAGE_LOG", "")
	t.Setenv("ADMIN_TOKEN_HASH", "")
	t.Setenv(APIKeyEnv, "  sk-env  ")

	cfg := Load()

	if cfg.ServerPort != ":9090" {
		t.Errorf("ServerPort = %q, want file value", cfg.ServerPort)
	}
	if cfg.Model != "env/model" {
		t.Errorf("Model = %q, want env override", cfg.Model)
	}
	if cfg.EnableUsageLog {
		t.Error("expected file to disable usage log")
	}
	if !cfg.AdminEnabled() {
		t.Error("expected admin API enabled from file hash")
	}
	if cfg.APIKey != "sk-env" {
		t.Errorf("APIKey = %q, want trimmed env value", cfg.APIKey)
	}
}

func TestEnsureConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("CHATRELAY_CONFIG", path)

	if err := EnsureConfigFile(); err != nil {
		t.Fatalf("EnsureConfigFile() error: %v", err)
	}

	// The generated file is all comments and must decode cleanly
	fc, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if fc.ServerPort != "" {
		t.Errorf("expected empty server_port, got %q", fc.ServerPort)
	}
}
