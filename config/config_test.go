package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{"TMDB_API_KEY": "tmdb"}))
	require.NoError(t, err)

	assert.Equal(t, "tmdb", cfg.TMDBAPIKey)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDBBaseURL)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, BackendJSON, cfg.StoreBackend)
	assert.Equal(t, "favorites.json", cfg.FavoritesFile)
	assert.Equal(t, "user_ratings.json", cfg.RatingsFile)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.AIEnabled())
}

func TestFromEnv_MissingTMDBKey(t *testing.T) {
	_, err := FromEnv(envFrom(map[string]string{"GEMINI_API_KEY": "g"}))
	assert.True(t, errors.Is(err, ErrMissingTMDBKey))
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"TMDB_API_KEY":   "tmdb",
		"GEMINI_API_KEY": "gem",
		"STORE_BACKEND":  "sqlite",
		"SQLITE_PATH":    "/tmp/x.db",
		"HTTP_TIMEOUT":   "5s",
		"LOG_FORMAT":     "json",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.AIEnabled())
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestFromEnv_Invalid(t *testing.T) {
	testCases := map[string]map[string]string{
		"bad backend": {"TMDB_API_KEY": "k", "STORE_BACKEND": "postgres"},
		"bad timeout": {"TMDB_API_KEY": "k", "HTTP_TIMEOUT": "soon"},
		"bad level":   {"TMDB_API_KEY": "k", "LOG_LEVEL": "loud"},
		"bad url":     {"TMDB_API_KEY": "k", "TMDB_BASE_URL": "not a url"},
	}

	for name, env := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envFrom(env))
			assert.Error(t, err)
		})
	}
}
