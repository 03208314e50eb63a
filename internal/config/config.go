// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the runtime configuration
type Config struct {
	// HTTPAddr is the listen address for the API server
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// RedisAddr is the live-store address
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	// RedisPassword is optional
	RedisPassword string `env:"REDIS_PASSWORD"`

	// RedisDB selects the redis database
	RedisDB int `env:"REDIS_DB" envDefault:"0"`

	// ArchivePath is the SQLite file for durable archives
	ArchivePath string `env:"ARCHIVE_PATH" envDefault:"pointdeck.db"`

	// BoardBaseURL enables the issue-tracker integration when set
	BoardBaseURL string `env:"BOARD_BASE_URL"`

	// BoardToken is the bearer token for the tracker
	BoardToken string `env:"BOARD_TOKEN"`

	// SweepInterval is how often the stale-session sweeper runs
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`

	// SweepAge is the age at which a live session counts as abandoned
	SweepAge time.Duration `env:"SWEEP_AGE" envDefault:"24h"`

	// PresenceCleanupInterval is how often stale heartbeats are dropped
	PresenceCleanupInterval time.Duration `env:"PRESENCE_CLEANUP_INTERVAL" envDefault:"1m"`

	// Debug switches on development logging
	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}
