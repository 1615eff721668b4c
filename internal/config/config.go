// Package config loads service configuration from environment variables.
//
// Everything tunable is read once at process start and injected into the
// components that need it — nothing reads the environment after startup.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all environment-sourced settings.
type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// StoreDriver selects the post store backend: "sqlite" or "postgres".
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DBPath      string `env:"DB_PATH" envDefault:"data/feed.db"`
	DatabaseURL string `env:"DATABASE_URL"`

	// JWTSecret verifies access tokens minted by the identity provider.
	JWTSecret string `env:"JWT_SECRET"`

	// Identity provider REST API: base URL plus a service token used on
	// every batch lookup.
	IdentityAPIURL   string `env:"IDENTITY_API_URL"`
	IdentityAPIToken string `env:"IDENTITY_API_TOKEN"`

	// Write quota: RateLimit posts per trailing RateWindow, per author.
	RateLimit  int           `env:"RATE_LIMIT" envDefault:"3"`
	RateWindow time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	if cfg.StoreDriver != "sqlite" && cfg.StoreDriver != "postgres" {
		return Config{}, fmt.Errorf("config: unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config: STORE_DRIVER=postgres requires DATABASE_URL")
	}
	if cfg.RateLimit <= 0 {
		return Config{}, fmt.Errorf("config: RATE_LIMIT must be positive, got %d", cfg.RateLimit)
	}
	return cfg, nil
}
