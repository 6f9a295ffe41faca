// Package config loads runtime settings from STEPCODER_* environment
// variables. Everything has a default except the auth token, which the
// server issues at login.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full runtime configuration.
type Config struct {
	// ServerURL is the base URL of the course server.
	ServerURL string `env:"STEPCODER_SERVER_URL" envDefault:"https://stepcoder.dev"`

	// AuthToken authenticates remote calls. Empty means anonymous; the
	// server will answer with a login redirect.
	AuthToken string `env:"STEPCODER_AUTH_TOKEN"`

	// StartPage, when set, overrides the stored page on launch.
	StartPage string `env:"STEPCODER_START_PAGE"`

	// DBPath overrides the journal database location.
	DBPath string `env:"STEPCODER_DB"`

	// RequestTimeout bounds ordinary remote calls; RunTimeout bounds
	// code execution, which the server may take a while over.
	RequestTimeout time.Duration `env:"STEPCODER_REQUEST_TIMEOUT" envDefault:"30s"`
	RunTimeout     time.Duration `env:"STEPCODER_RUN_TIMEOUT" envDefault:"60s"`

	// Tutor settings. Provider empty means auto-discover from the
	// standard API key variables; "off" disables tutor hints.
	TutorProvider  string `env:"STEPCODER_TUTOR_PROVIDER"`
	TutorModel     string `env:"STEPCODER_TUTOR_MODEL"`
	TutorThreshold int    `env:"STEPCODER_TUTOR_THRESHOLD" envDefault:"3"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
