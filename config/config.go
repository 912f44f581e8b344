// Package config loads the immutable runtime configuration for hfchat.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	DefaultEndpoint = "https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.2"
	DefaultTimeout  = 60 * time.Second
	DefaultEnvFile  = ".env"
)

// ErrMissingAPIKey is returned by Load when HF_API_KEY is not set.
var ErrMissingAPIKey = errors.New("HF_API_KEY not set in environment or .env")

// Config is built once at startup and passed by value afterwards.
type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
	LogLevel zerolog.Level
	ShowRaw  bool

	TelegramToken string
	AllowedUserID int64
}

// Overrides carries command line values; zero values mean "not set".
type Overrides struct {
	EnvFile  string
	Endpoint string
	Timeout  time.Duration
	ShowRaw  bool
}

// LoadEnvFile sources path into the process environment. A missing file is
// not an error, existing variables are not overwritten.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads the environment (after LoadEnvFile) and applies overrides.
func Load(o Overrides) (Config, error) {
	if err := LoadEnvFile(o.EnvFile); err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIKey:        strings.TrimSpace(os.Getenv("HF_API_KEY")),
		Endpoint:      envOr("HF_API_URL", DefaultEndpoint),
		Timeout:       DefaultTimeout,
		LogLevel:      ParseLogLevel(os.Getenv("LOG_LEVEL")),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_SECRET")),
	}

	if raw := strings.TrimSpace(os.Getenv("HF_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HF_TIMEOUT %q: %w", raw, err)
		}
		cfg.Timeout = d
	}

	if raw := strings.TrimSpace(os.Getenv("HF_SHOW_RAW")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid HF_SHOW_RAW %q: %w", raw, err)
		}
		cfg.ShowRaw = v
	}

	if raw := strings.TrimSpace(os.Getenv("USER_ID")); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid USER_ID %q: %w", raw, err)
		}
		cfg.AllowedUserID = v
	}

	if o.Endpoint != "" {
		cfg.Endpoint = o.Endpoint
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	if o.ShowRaw {
		cfg.ShowRaw = true
	}

	if cfg.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}

	return cfg, nil
}

// ParseLogLevel maps LOG_LEVEL onto zerolog, defaulting to info.
func ParseLogLevel(raw string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
