// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/DeborahScali/travelapp-sub000/internal/maps"
)

// Storage backends accepted by STORE.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// Store selects the persistence backend: "postgres" (default) or "memory".
	Store string

	// DatabaseURL is the Postgres connection string. Required when Store is postgres.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// Maps configures the mapping-service client. Without MAPS_API_KEY every
	// lookup fails with maps.ErrDisabled and the itinerary keeps working.
	Maps maps.Config

	// AutosaveDebounce is the quiet period before pending plan edits are saved.
	AutosaveDebounce time.Duration

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Option overrides a value after the environment has been read, typically
// from a command-line flag.
type Option func(*Config)

// WithPort overrides PORT.
func WithPort(port string) Option {
	return func(c *Config) { c.Port = port }
}

// WithStore overrides STORE.
func WithStore(store string) Option {
	return func(c *Config) { c.Store = store }
}

// Load reads configuration from environment variables, applies opts and
// validates the result. Returns an error listing any required variables that
// are not set and any values that cannot be parsed.
func Load(opts ...Option) (Config, error) {
	var problems []string
	intEnv := func(key string, fallback int) int {
		v := os.Getenv(key)
		if v == "" {
			return fallback
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			problems = append(problems, fmt.Sprintf("%s must be a non-negative integer", key))
			return fallback
		}
		return n
	}

	mapsCfg := maps.DefaultConfig()
	mapsCfg.APIKey = os.Getenv("MAPS_API_KEY")
	mapsCfg.BaseURL = strings.TrimRight(getEnv("MAPS_BASE_URL", mapsCfg.BaseURL), "/")
	mapsCfg.TimeoutMs = intEnv("MAPS_TIMEOUT_MS", mapsCfg.TimeoutMs)
	mapsCfg.MaxRetries = intEnv("MAPS_MAX_RETRIES", mapsCfg.MaxRetries)

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		Store:            strings.ToLower(getEnv("STORE", StorePostgres)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSOrigins:      splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		Maps:             mapsCfg,
		AutosaveDebounce: time.Duration(intEnv("AUTOSAVE_DEBOUNCE_MS", 1500)) * time.Millisecond,
		MaxBodyBytes:     int64(intEnv("MAX_BODY_BYTES", 1<<20)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var missing []string
	switch cfg.Store {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case StoreMemory:
	default:
		problems = append(problems, fmt.Sprintf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.Store))
	}
	if cfg.MaxBodyBytes == 0 {
		problems = append(problems, "MAX_BODY_BYTES must be greater than zero")
	}

	if len(missing) > 0 {
		problems = append([]string{"required environment variables not set: " + strings.Join(missing, ", ")}, problems...)
	}
	if len(problems) > 0 {
		return Config{}, errors.New(strings.Join(problems, "; "))
	}
	return cfg, nil
}

// LoadDotEnv reads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config.LoadDotEnv: %w", err)
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
