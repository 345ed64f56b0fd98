// Package main provides the entry point for the CineMatch movie discovery server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"cinematch/config"
	"cinematch/logging"
	"cinematch/recommend"
	"cinematch/repository"
	"cinematch/services"
	"cinematch/session"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// App represents the application with its dependencies
type App struct {
	config   *config.Config
	pipeline *recommend.Pipeline
	session  *session.Session
}

func main() {
	logging.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingTMDBKey) {
			log.Fatal().Msg("TMDB API key not found. Please set TMDB_API_KEY in your environment or .env file.")
		}
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	app := newApp(context.Background(), cfg, store)

	log.Info().Str("addr", cfg.ListenAddr).Bool("ai_enabled", cfg.AIEnabled()).Msg("Server starting")
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      app.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

// newApp wires the external services, pipeline and session
func newApp(ctx context.Context, cfg *config.Config, store repository.Store) *App {
	tmdbService := services.NewTMDBService(services.TMDBConfig{
		APIKey:       cfg.TMDBAPIKey,
		BaseURL:      cfg.TMDBBaseURL,
		ImageBaseURL: cfg.TMDBImageBaseURL,
		Timeout:      cfg.HTTPTimeout,
	})

	var llm recommend.TextGenerator
	if cfg.AIEnabled() {
		gemini, err := services.NewGeminiService(ctx, services.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
			Timeout: cfg.HTTPTimeout,
		})
		if err != nil {
			log.Error().Err(err).Msg("Gemini client unavailable - AI recommendations will be disabled")
		} else {
			llm = gemini
			log.Info().Str("model", cfg.GeminiModel).Msg("Gemini integration enabled")
		}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set - AI recommendations will be disabled")
	}

	return &App{
		config:   cfg,
		pipeline: recommend.NewPipeline(tmdbService, llm),
		session:  session.New(store),
	}
}

func openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return repository.OpenSQLiteStore(cfg.SQLitePath)
	case config.BackendJSON:
		return repository.NewJSONStore(cfg.FavoritesFile, cfg.RatingsFile), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func (app *App) routes() *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint
	r.HandleFunc("/health", healthHandler).Methods("GET")

	// Interactive pages
	r.HandleFunc("/", app.indexHandler).Methods("GET")
	r.HandleFunc("/search/similar", app.searchHandler(recommend.StrategySimilar, tabSimilar)).Methods("POST")
	r.HandleFunc("/search/discover", app.searchHandler(recommend.StrategyDiscover, tabDiscover)).Methods("POST")
	r.HandleFunc("/search/ai", app.searchHandler(recommend.StrategyAI, tabAI)).Methods("POST")

	r.HandleFunc("/favorites/clear", app.clearFavoritesHandler).Methods("POST")
	r.HandleFunc("/favorites/{id}", app.addFavoriteHandler).Methods("POST")
	r.HandleFunc("/favorites/{id}/remove", app.removeFavoriteHandler).Methods("POST")
	r.HandleFunc("/ratings/{id}", app.rateHandler).Methods("POST")
	r.HandleFunc("/theme/toggle", app.toggleThemeHandler).Methods("POST")

	// Downloads
	r.HandleFunc("/export/recommendations.csv", app.exportRecommendationsHandler).Methods("GET")
	r.HandleFunc("/export/favorites.csv", app.exportFavoritesHandler).Methods("GET")

	// API routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/recommendations", app.apiRecommendationsHandler).Methods("GET")
	api.HandleFunc("/favorites", app.apiFavoritesHandler).Methods("GET")
	api.HandleFunc("/ratings", app.apiRatingsHandler).Methods("GET")
	api.HandleFunc("/ratings/{id}", app.apiRateHandler).Methods("PUT")

	return r
}
