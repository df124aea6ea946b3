// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Handstand API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"4000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis) for server-side sessions
	RedisURL string `env:"REDIS_URL,required"`

	// SessionSecret signs the e-book access tokens and anchors session security.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// ProvisionSecret gates the server-to-server account provisioning endpoint.
	// Optional in development; an empty value in production fails closed (503).
	ProvisionSecret string `env:"PROVISION_SECRET"`

	// AllowedOrigins is a comma-separated CORS allow-list for the web frontend.
	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`

	// EmailEnabled reports whether outbound email delivery is wired up.
	// When false (and not in production) recovery endpoints may return raw
	// tokens in the response body for local testing.
	EmailEnabled bool `env:"EMAIL_ENABLED" envDefault:"false"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the parsed CORS allow-list.
func (c *Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// ProvisioningSecret returns the shared secret guarding the provisioning
// endpoints. Empty when unset.
func (c *Config) ProvisioningSecret() string {
	return c.ProvisionSecret
}

// ExposeRawTokens reports whether recovery endpoints may include raw one-time
// tokens in JSON responses. Development convenience only; never in production.
func (c *Config) ExposeRawTokens() bool {
	return !c.EmailEnabled && !c.IsProduction()
}
