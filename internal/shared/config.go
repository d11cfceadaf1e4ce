package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// BaseURLEnv overrides [APIConfig.BaseURL] when set.
const BaseURLEnv = "PASSPORT_API_BASE_URL"

// defaultAPIPath is the same-origin API prefix used when no base URL is configured.
const defaultAPIPath = "/api"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Export   ExportConfig   `toml:"export"`
}

// APIConfig selects the Passport backend host.
type APIConfig struct {
	Origin         string `toml:"origin"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// ExportConfig contains defaults for bulk passport exports.
type ExportConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveBaseURL returns the backend base URL.
//
// Precedence: [BaseURLEnv], then an absolute base_url, then origin joined with base_url (or "/api" when unset).
func (c *Config) ResolveBaseURL() string {
	base := c.API.BaseURL
	if env := strings.TrimSpace(os.Getenv(BaseURLEnv)); env != "" {
		base = env
	}

	if u, err := url.Parse(base); err == nil && u.IsAbs() {
		return strings.TrimRight(base, "/")
	}

	if base == "" {
		base = defaultAPIPath
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}

	return strings.TrimRight(c.API.Origin, "/") + strings.TrimRight(base, "/")
}

// Timeout returns the HTTP timeout for backend calls, defaulting to 30 seconds.
func (c *Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
