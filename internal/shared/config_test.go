package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./hymns.db" {
			t.Errorf("expected database path ./hymns.db, got %s", config.Database.Path)
		}

		if config.Search.Debounce() != 300*time.Millisecond {
			t.Errorf("expected debounce 300ms, got %v", config.Search.Debounce())
		}

		if config.Search.MaxHymnNumber != 1360 {
			t.Errorf("expected max hymn number 1360, got %d", config.Search.MaxHymnNumber)
		}

		if config.Remote.BaseURL != "https://hymnalnetapi.herokuapp.com" {
			t.Errorf("unexpected remote base URL %s", config.Remote.BaseURL)
		}

		if config.Remote.OAuth.Enabled() {
			t.Error("expected oauth to be disabled by default")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[remote]
base_url = "http://localhost:9090"
timeout_seconds = 3

[remote.oauth]
client_id = "id"
client_secret = "secret"
token_url = "http://localhost:9090/token"

[search]
debounce_ms = 50
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Remote.Timeout() != 3*time.Second {
			t.Errorf("expected timeout 3s, got %v", config.Remote.Timeout())
		}

		if !config.Remote.OAuth.Enabled() {
			t.Error("expected oauth to be enabled")
		}

		if config.Search.Debounce() != 50*time.Millisecond {
			t.Errorf("expected debounce 50ms, got %v", config.Search.Debounce())
		}

		if config.Search.MaxHymnNumber != 1360 {
			t.Errorf("expected unset max hymn number to keep default, got %d", config.Search.MaxHymnNumber)
		}
	})

	t.Run("LoadConfig invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[database\npath="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
