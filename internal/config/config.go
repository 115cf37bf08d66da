// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration. The timezone is resolved once at
// startup and threaded explicitly into every calendar computation; nothing
// else in the process reads it again.
type Config struct {
	Port     string `env:"CHORECHECK_PORT" envDefault:"8080"`
	DBPath   string `env:"CHORECHECK_DB_PATH" envDefault:"chorecheck.db"`
	Timezone string `env:"CHORECHECK_TZ" envDefault:"America/New_York"`
	LogLevel string `env:"CHORECHECK_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured IANA timezone name.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
