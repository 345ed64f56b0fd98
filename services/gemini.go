package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// Gemini defaults
const (
	DefaultGeminiBaseURL    = "https://generativelanguage.googleapis.com/"
	DefaultGeminiModel      = "gemini-1.5-flash"
	DefaultGeminiAPIVersion = "v1beta"
)

// ErrEmptyGeneration is returned when Gemini answers without any text
var ErrEmptyGeneration = errors.New("gemini returned no text")

// GeminiConfig configures a GeminiService
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// GeminiService generates text with a Gemini model through the genai client
type GeminiService struct {
	model  string
	client *genai.Client
}

// NewGeminiService creates a new Gemini client
func NewGeminiService(ctx context.Context, cfg GeminiConfig) (*GeminiService, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    cfg.BaseURL,
			APIVersion: DefaultGeminiAPIVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", redactKey(err, cfg.APIKey))
	}

	return &GeminiService{model: cfg.Model, client: client}, nil
}

// GenerateContent sends prompt and returns the generated text of the first
// candidate
func (g *GeminiService) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("gemini API returned status %d: %s", apiErr.Code, apiErr.Message)
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		log.Debug().Str("model", g.model).Int("candidates", len(resp.Candidates)).Msg("Gemini returned no text")
		return "", ErrEmptyGeneration
	}
	return text, nil
}
