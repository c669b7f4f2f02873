// Package config loads application settings from the environment.
//
// Settings come from env vars (optionally seeded from a .env file by
// main). Struct tags drive the parsing via caarlos0/env, so adding a
// setting means adding a field, not another os.Getenv call.
package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds everything the server needs to start.
type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	DBPath   string `env:"DB_PATH" envDefault:"data/salvage.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// JWTSecret signs session tokens. Required, minimum 16 characters.
	JWTSecret string `env:"JWT_SECRET"`

	// GoogleClientID is the OAuth client the frontend obtains ID tokens
	// for. Posted tokens are verified against this audience.
	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`

	// CORSOrigin is the browser origin allowed to call the API with
	// credentials. Defaults to the local Vite dev server.
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`

	Gemini GeminiConfig `envPrefix:"GEMINI_"`
}

// GeminiConfig configures the outbound transpilation calls.
type GeminiConfig struct {
	APIKey        string        `env:"API_KEY"`
	Model         string        `env:"MODEL" envDefault:"gemini-pro"`
	BaseURL       string        `env:"BASE_URL"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"60s"`
	MaxConcurrent int64         `env:"MAX_CONCURRENT" envDefault:"4"`
}

// Load parses the environment into a Config and validates the settings
// that have no sane default.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.GoogleClientID == "" {
		return nil, errors.New("GOOGLE_CLIENT_ID is required")
	}
	if cfg.Gemini.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}

	return cfg, nil
}
