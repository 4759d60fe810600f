package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all backend configuration.
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Tools     ToolsConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// CatalogConfig holds discovery and cache configuration.
type CatalogConfig struct {
	TTLSeconds int `envconfig:"CATALOG_TTL" default:"120"`

	// DirsFile optionally points to a YAML overlay overriding scan roots.
	DirsFile string `envconfig:"CATALOG_DIRS_FILE" default:""`
}

// ToolsConfig holds external tool invocation configuration.
type ToolsConfig struct {
	TimeoutSeconds int `envconfig:"TOOL_TIMEOUT" default:"10"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Dirs is the optional YAML overlay for scan roots. Empty slices keep the
// built-in defaults.
type Dirs struct {
	Applications []string `yaml:"applications"`
	Extensions   []string `yaml:"extensions"`
	PrefPanes    []string `yaml:"pref_panes"`
	SettingsApps []string `yaml:"settings_apps"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: "8000", Host: "0.0.0.0"},
		Catalog: CatalogConfig{TTLSeconds: 120},
		Tools:   ToolsConfig{TimeoutSeconds: 10},
		Logging: LogConfig{Level: "info", Development: false},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// LoadDirs reads the scan-root overlay file. A missing path returns an
// empty overlay rather than an error.
func LoadDirs(path string) (*Dirs, error) {
	if path == "" {
		return &Dirs{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Dirs{}, nil
		}
		return nil, fmt.Errorf("failed to read dirs file: %w", err)
	}
	var dirs Dirs
	if err := yaml.Unmarshal(data, &dirs); err != nil {
		return nil, fmt.Errorf("failed to parse dirs file: %w", err)
	}
	return &dirs, nil
}
