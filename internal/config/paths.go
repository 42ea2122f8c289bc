// Package config loads chatrelay settings from the environment and an
// optional TOML file.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the chatrelay data directory.
// - Windows: %APPDATA%\chatrelay
// - Other OS: ~/.chatrelay
func DataDir() string {
	if dir := os.Getenv("CHATRELAY_DATA_DIR"); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "chatrelay")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".chatrelay"
	}
	return filepath.Join(home, ".chatrelay")
}

// DBPath returns the path to the SQLite usage ledger.
func DBPath() string {
	return filepath.Join(DataDir(), "chatrelay.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
