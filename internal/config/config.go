// Package config loads and validates the MVG configuration from YAML
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all MVG configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Provider configuration for the optional response polish step
	Provider ProviderConfig `yaml:"provider"`

	// Memory store configuration
	Memory MemoryConfig `yaml:"memory"`

	// Intent analyzer configuration
	Intent IntentConfig `yaml:"intent"`

	// HTTP server configuration
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ProviderConfig configures the language-model backend.
type ProviderConfig struct {
	// Backend selects the provider: none, mock, openai, gemini.
	Backend string `yaml:"backend"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// MemoryConfig configures the in-process user memory store.
type MemoryConfig struct {
	// MaxUsers bounds the store; 0 means unbounded.
	MaxUsers int `yaml:"max_users"`
}

// IntentConfig configures the intent analyzer.
type IntentConfig struct {
	// PatternFile optionally overrides the surface pattern library.
	PatternFile string `yaml:"pattern_file"`

	// WatchPatterns reloads the pattern file when it changes on disk.
	WatchPatterns bool `yaml:"watch_patterns"`
}

// ServerConfig configures the HTTP wrapper.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// LoggingConfig configures logging output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "mvg",
		Version: "2.0",

		Provider: ProviderConfig{
			Backend: "none",
			Timeout: "60s",
		},

		Memory: MemoryConfig{
			MaxUsers: 0,
		},

		Intent: IntentConfig{
			PatternFile:   "",
			WatchPatterns: false,
		},

		Server: ServerConfig{
			Addr:            ":8090",
			ReadTimeout:     "10s",
			WriteTimeout:    "30s",
			ShutdownTimeout: "10s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// Backend first, so the key overrides below see the selected backend.
	if backend := os.Getenv("MVG_PROVIDER"); backend != "" {
		c.Provider.Backend = backend
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && (c.Provider.Backend == "openai" || c.Provider.Backend == "") {
		c.Provider.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && c.Provider.Backend == "gemini" {
		c.Provider.APIKey = key
	}
	if model := os.Getenv("MVG_MODEL"); model != "" {
		c.Provider.Model = model
	}
	if addr := os.Getenv("MVG_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if pf := os.Getenv("MVG_PATTERN_FILE"); pf != "" {
		c.Intent.PatternFile = pf
	}
}

// GetProviderTimeout parses the provider timeout with a safe fallback.
func (c *Config) GetProviderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Provider.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// GetShutdownTimeout parses the server shutdown timeout.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetReadTimeout parses the server read timeout.
func (c *Config) GetReadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ReadTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetWriteTimeout parses the server write timeout.
func (c *Config) GetWriteTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.WriteTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	switch c.Provider.Backend {
	case "", "none", "mock", "openai", "gemini":
	default:
		return fmt.Errorf("unknown provider backend: %q", c.Provider.Backend)
	}
	if c.Memory.MaxUsers < 0 {
		return fmt.Errorf("memory.max_users must not be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level: %q", c.Logging.Level)
	}
	return nil
}
