// Package config manages environment variables.
//
// It reads variables from the process environment (optionally seeded
// from a `.env` file), loads them into structured Go types, and
// validates that required values are present so they can be reused
// across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional values (timezone, pool tuning).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env,
	// if one exists, before any env vars are read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces every env var this application reads.
// CASENOTIFY_PRIMARY.ENV -> primary.env -> Config.Primary.Env
const envPrefix = "CASENOTIFY_"

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"required"` tags are enforced by go-playground/validator
// after unmarshalling.
type Config struct {
	Primary  Primary        `koanf:"primary" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
}

// Primary holds top-level information about the runtime environment.
//
// Env selects runtime behavior (SQL statement logging, console vs JSON
// logs) and is one of: development, test, production.
//
// Timezone names the zone used when rendering timestamp-with-timezone
// columns back to callers. Defaults to UTC when unset.
type Primary struct {
	Env      string `koanf:"env" validate:"required,oneof=development test production"`
	Timezone string `koanf:"timezone"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// Pool fields are optional; zero values defer to the pgxpool defaults.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxConns        int    `koanf:"max_conns"`
	MinConns        int    `koanf:"min_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
}

// Load reads configuration from environment variables, unmarshals it
// into Config, validates it, and applies defaults.
//
// Env var names use the CASENOTIFY_ prefix and "." as the nesting
// delimiter, e.g. CASENOTIFY_DATABASE.HOST -> Config.Database.Host.
func Load() (*Config, error) {
	// "." is the key-path delimiter koanf uses to represent nesting.
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if cfg.Primary.Timezone == "" {
		cfg.Primary.Timezone = "UTC"
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Primary.Env == "development"
}
