package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the emulator configuration, loaded from YAML with env overrides.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Auth   AuthConfig   `yaml:"auth"`
	Limits LimitConfig  `yaml:"limits"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

type StoreConfig struct {
	// Driver selects the properties store: "memory" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// Accounts maps account name to its base64 shared key.
	Accounts map[string]string `yaml:"accounts"`
}

type LimitConfig struct {
	// RequestsPerSecond of 0 disables rate limiting.
	RequestsPerSecond int `yaml:"requests_per_second"`
	Burst             int `yaml:"burst"`
}

// Default returns the configuration the emulator runs with when no file is
// given: memory store, no auth, no rate limit.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 10000, LogLevel: "info"},
		Store:  StoreConfig{Driver: "memory"},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 - operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the parts main cannot recover from.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "", "memory":
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if c.Limits.RequestsPerSecond < 0 {
		return fmt.Errorf("limits.requests_per_second must not be negative")
	}
	if c.Limits.RequestsPerSecond > 0 && c.Limits.Burst <= 0 {
		c.Limits.Burst = c.Limits.RequestsPerSecond
	}
	return nil
}
