// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Store backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// ErrMissingTMDBKey is returned when TMDB_API_KEY is not set
var ErrMissingTMDBKey = errors.New("TMDB_API_KEY environment variable is required")

// Config holds all runtime settings
type Config struct {
	TMDBAPIKey       string        `validate:"required"`
	TMDBBaseURL      string        `validate:"required,url"`
	TMDBImageBaseURL string        `validate:"required,url"`
	GeminiAPIKey     string
	GeminiModel      string        `validate:"required"`
	GeminiBaseURL    string        `validate:"required,url"`
	ListenAddr       string        `validate:"required"`
	StoreBackend     string        `validate:"oneof=json sqlite"`
	FavoritesFile    string        `validate:"required_if=StoreBackend json"`
	RatingsFile      string        `validate:"required_if=StoreBackend json"`
	SQLitePath       string        `validate:"required_if=StoreBackend sqlite"`
	HTTPTimeout      time.Duration `validate:"gt=0"`
	LogLevel         string        `validate:"oneof=trace debug info warn error"`
	LogFormat        string        `validate:"oneof=console json"`
}

// Load reads a .env file when present, then builds a Config from the
// environment. A missing TMDB key is reported as ErrMissingTMDBKey.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Could not load .env file")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config using getenv for lookups
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	timeout, err := time.ParseDuration(get("HTTP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	cfg := &Config{
		TMDBAPIKey:       getenv("TMDB_API_KEY"),
		TMDBBaseURL:      get("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBImageBaseURL: get("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p"),
		GeminiAPIKey:     getenv("GEMINI_API_KEY"),
		GeminiModel:      get("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:    get("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/"),
		ListenAddr:       get("LISTEN_ADDR", ":8080"),
		StoreBackend:     get("STORE_BACKEND", BackendJSON),
		FavoritesFile:    get("FAVORITES_FILE", "favorites.json"),
		RatingsFile:      get("RATINGS_FILE", "user_ratings.json"),
		SQLitePath:       get("SQLITE_PATH", "cinematch.db"),
		HTTPTimeout:      timeout,
		LogLevel:         get("LOG_LEVEL", "info"),
		LogFormat:        get("LOG_FORMAT", "console"),
	}

	if cfg.TMDBAPIKey == "" {
		return nil, ErrMissingTMDBKey
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// AIEnabled reports whether the free-text strategy has a Gemini key
func (c *Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}
