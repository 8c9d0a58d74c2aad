// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

// envPrefix is prepended to every variable name below.
const envPrefix = "SELFLEARNING_"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:"127.0.0.1:8080"`
	DBPath     string `env:"DB_PATH" envDefault:"selflearning.db"`

	// SecretKeyHex is the AES-256 key for tokens at rest, as 64 hex characters.
	SecretKeyHex  string `env:"SECRET_KEY"`
	SessionSecret string `env:"SESSION_SECRET"`

	ModelAPIName     string        `env:"MODEL_API" envDefault:"openai"`
	ProbeTimeout     time.Duration `env:"PROBE_TIMEOUT" envDefault:"10s"`
	MonitorInterval  time.Duration `env:"MONITOR_INTERVAL" envDefault:"0s"`
	ChatSystemPrompt string        `env:"CHAT_SYSTEM_PROMPT"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text"`

	// Derived from the raw fields by Load.
	SecretKey []byte
	ModelAPI  model.ModelAPI
}

// HasSessionSecret reports whether signed session tokens can be verified.
// Without it every request is anonymous.
func (c *Config) HasSessionSecret() bool {
	return c.SessionSecret != ""
}

// Load reads SELFLEARNING_* environment variables and returns a validated Config.
// SELFLEARNING_SECRET_KEY is optional; without it credentials cannot be stored.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.SecretKeyHex != "" {
		key, err := hex.DecodeString(cfg.SecretKeyHex)
		if err != nil {
			return nil, fmt.Errorf("%sSECRET_KEY is not valid hex: %w", envPrefix, err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("%sSECRET_KEY must be 64 hex characters (32 bytes), got %d bytes", envPrefix, len(key))
		}
		cfg.SecretKey = key
	}

	cfg.ModelAPI = model.ModelAPI(strings.ToLower(strings.TrimSpace(cfg.ModelAPIName)))
	if !cfg.ModelAPI.Valid() {
		return nil, fmt.Errorf("%sMODEL_API has invalid value %q: want ollama or openai", envPrefix, cfg.ModelAPIName)
	}

	if cfg.ProbeTimeout <= 0 {
		return nil, fmt.Errorf("%sPROBE_TIMEOUT must be positive, got %s", envPrefix, cfg.ProbeTimeout)
	}
	if cfg.MonitorInterval < 0 {
		return nil, fmt.Errorf("%sMONITOR_INTERVAL must not be negative, got %s", envPrefix, cfg.MonitorInterval)
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("%sLOG_FORMAT has invalid value %q: want text or json", envPrefix, cfg.LogFormat)
	}

	return cfg, nil
}
