// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath          string        `env:"OBLOG_DB_PATH" envDefault:"./data/oblog.db"`
	SessionSecret   string        `env:"OBLOG_SESSION_SECRET,required"`
	SessionLifetime time.Duration `env:"OBLOG_SESSION_LIFETIME" envDefault:"24h"`
	ServerHost      string        `env:"OBLOG_SERVER_HOST" envDefault:"localhost"`
	ServerPort      int           `env:"OBLOG_SERVER_PORT" envDefault:"8080"`
	Env             string        `env:"OBLOG_ENV" envDefault:"development"`
	LogLevel        string        `env:"OBLOG_LOG_LEVEL" envDefault:"info"`
	SiteName        string        `env:"OBLOG_SITE_NAME" envDefault:"oBlog"`
	MetricsEnabled  bool          `env:"OBLOG_METRICS_ENABLED" envDefault:"true"`

	// Bootstrap admin, created only when the users table is empty
	AdminEmail    string `env:"OBLOG_ADMIN_EMAIL"`
	AdminPassword string `env:"OBLOG_ADMIN_PASSWORD"`
	AdminName     string `env:"OBLOG_ADMIN_NAME" envDefault:"Administrator"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// SeedAdmin returns true if bootstrap admin credentials are configured.
func (c Config) SeedAdmin() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("OBLOG_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("OBLOG_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.SessionLifetime <= 0 {
		return nil, fmt.Errorf("OBLOG_SESSION_LIFETIME must be positive, got %s", cfg.SessionLifetime)
	}

	if cfg.Env != "development" && cfg.Env != "production" {
		return nil, fmt.Errorf("OBLOG_ENV must be development or production, got %q", cfg.Env)
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("OBLOG_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
