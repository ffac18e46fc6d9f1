package config

import (
	"os"
	"strconv"
)

// LoadFromEnv applies BALLAST_* environment overrides on top of cfg.
func LoadFromEnv(cfg *Config) {
	if port := os.Getenv("BALLAST_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	if logLevel := os.Getenv("BALLAST_LOG_LEVEL"); logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}

	if driver := os.Getenv("BALLAST_STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}

	if dsn := os.Getenv("BALLAST_STORE_DSN"); dsn != "" {
		cfg.Store.DSN = dsn
	}

	if rps := os.Getenv("BALLAST_RATE_LIMIT_RPS"); rps != "" {
		if n, err := strconv.Atoi(rps); err == nil {
			cfg.Limits.RequestsPerSecond = n
		}
	}
}

// GetEnvOrDefault returns an environment variable or a fallback value.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
