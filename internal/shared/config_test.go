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

		if config.Database.Path != "./passport.db" {
			t.Errorf("expected database path ./passport.db, got %s", config.Database.Path)
		}

		if config.API.Origin != "http://localhost:8000" {
			t.Errorf("expected origin http://localhost:8000, got %s", config.API.Origin)
		}

		if config.API.BaseURL != "" {
			t.Errorf("expected empty base_url, got %s", config.API.BaseURL)
		}

		if config.Export.Workers != 4 {
			t.Errorf("expected 4 export workers, got %d", config.Export.Workers)
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

		testConfig := `[api]
origin = "https://passport.example.com"
base_url = "/v2"
timeout_seconds = 5

[database]
path = "/custom/path.db"

[log]
level = "debug"
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

		if config.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %s", config.Log.Level)
		}

		if config.Export.Workers != 4 {
			t.Errorf("expected unset sections to keep defaults, got %d workers", config.Export.Workers)
		}

		if config.Timeout() != 5*time.Second {
			t.Errorf("expected 5s timeout, got %v", config.Timeout())
		}
	})

	t.Run("LoadConfig With Invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[api\norigin ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig With Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestResolveBaseURL(t *testing.T) {
	tc := []struct {
		name    string
		origin  string
		baseURL string
		env     string
		want    string
	}{
		{name: "defaults to same-origin api path", origin: "http://localhost:8000", want: "http://localhost:8000/api"},
		{name: "relative base joined to origin", origin: "http://localhost:8000/", baseURL: "v2/", want: "http://localhost:8000/v2"},
		{name: "absolute base wins", origin: "http://localhost:8000", baseURL: "https://api.example.com/", want: "https://api.example.com"},
		{name: "env overrides config", origin: "http://localhost:8000", baseURL: "/api", env: "https://env.example.com/api", want: "https://env.example.com/api"},
		{name: "no origin yields path only", want: "/api"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(BaseURLEnv, tt.env)

			config := &Config{API: APIConfig{Origin: tt.origin, BaseURL: tt.baseURL}}
			if got := config.ResolveBaseURL(); got != tt.want {
				t.Errorf("ResolveBaseURL() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("default timeout", func(t *testing.T) {
		if got := (&Config{}).Timeout(); got != 30*time.Second {
			t.Errorf("expected 30s default timeout, got %v", got)
		}
	})
}
