// Package config loads the dashboard server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvFileVar names the variable pointing at an optional .env file.
const EnvFileVar = "ASKSTREAM_ENV_FILE"

// Config holds the server settings.
type Config struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	DataFile     string        `env:"ASKSTREAM_DATA_FILE"`
	LoadingDelay time.Duration `env:"ASKSTREAM_LOADING_DELAY" envDefault:"1s"`
	OffsetStep   float64       `env:"ASKSTREAM_STACK_OFFSET" envDefault:"10"`
	ScaleStep    float64       `env:"ASKSTREAM_STACK_SCALE" envDefault:"0.06"`
	CookieTTL    time.Duration `env:"ASKSTREAM_COOKIE_TTL" envDefault:"24h"`
	SweepEvery   time.Duration `env:"ASKSTREAM_SWEEP_INTERVAL" envDefault:"10m"`
	OTelEndpoint string        `env:"ASKSTREAM_OTEL_ENDPOINT"`
	OTelEnabled  bool          `env:"ASKSTREAM_OTEL_ENABLED" envDefault:"true"`
}

// Load reads the optional .env file, then parses the environment into a Config.
// Variables already set in the process win over the file.
func Load() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFile() error {
	path := strings.TrimSpace(os.Getenv(EnvFileVar))
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load env file %q: %w", path, err)
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.LoadingDelay < 0 {
		return fmt.Errorf("ASKSTREAM_LOADING_DELAY must not be negative, got %s", c.LoadingDelay)
	}
	if c.CookieTTL <= 0 {
		return fmt.Errorf("ASKSTREAM_COOKIE_TTL must be positive, got %s", c.CookieTTL)
	}
	if c.SweepEvery <= 0 {
		return fmt.Errorf("ASKSTREAM_SWEEP_INTERVAL must be positive, got %s", c.SweepEvery)
	}
	if c.ScaleStep >= 1 {
		return fmt.Errorf("ASKSTREAM_STACK_SCALE must be below 1, got %v", c.ScaleStep)
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}
