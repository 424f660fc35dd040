package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, parsed from the environment after an
// optional .env file is loaded.
type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"secret_key_change_me"`
	SiteURL       string `env:"SITE_URL" envDefault:"http://localhost:8080"`

	// The admin account is seeded at startup with this password.
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"./web/uploads"`
}

// Load reads .env if present and parses the environment into a Config.
func Load() (*Config, error) {
	// Missing .env is fine, env vars may come from the system.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
