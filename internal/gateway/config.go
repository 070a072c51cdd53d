package gateway

import (
	"os"
	"strconv"
)

// DefaultActor attributes writes when no actor identity is configured.
const DefaultActor = "System"

// Config holds gateway client settings.
type Config struct {
	BaseURL    string
	TimeoutMs  int
	MaxRetries int // extra attempts after the first, transport failures only
	Actor      string
	Token      string // anti-forgery token forwarded on writes, optional
	LogCalls   bool
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:8080",
		TimeoutMs:  10000,
		MaxRetries: 1,
		Actor:      DefaultActor,
	}
}

// LoadConfig reads gateway configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("WOEDIT_GATEWAY_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("WOEDIT_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("WOEDIT_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}
	if v := os.Getenv("WOEDIT_ACTOR"); v != "" {
		cfg.Actor = v
	}
	if v := os.Getenv("WOEDIT_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("WOEDIT_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}

	return cfg
}
