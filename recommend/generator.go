// Package recommend retrieves, filters and formats movie recommendations.
package recommend

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"cinematch/models"
	"cinematch/notice"
	"cinematch/services"

	"github.com/rs/zerolog/log"
)

// MaxAITitles caps how many generated titles are looked up
const MaxAITitles = 5

const aiPromptTemplate = `
Based on this description: "%s"

Recommend 10 movies that match this description or mood.
Return only movie titles, one per line, no explanations or numbering.
Focus on popular, well-known movies that are likely to be in movie databases.
`

// MetadataClient is the subset of the TMDB service the pipeline uses
type MetadataClient interface {
	SearchMovies(ctx context.Context, query string) []models.Candidate
	DiscoverMovies(ctx context.Context, p services.DiscoverParams) []models.Candidate
	GetSimilarMovies(ctx context.Context, tmdbID int) []models.Candidate
	GetMovieDetails(ctx context.Context, tmdbID int) *models.MovieDetail
	GetMovieTrailer(ctx context.Context, tmdbID int) string
	GetStreamingProviders(ctx context.Context, tmdbID int) []models.StreamingProvider
	ImageURL(size, path string) string
}

// TextGenerator produces free text for a prompt
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Generator runs the three retrieval strategies
type Generator struct {
	tmdb MetadataClient
	llm  TextGenerator
}

// NewGenerator creates a generator. llm may be nil, which disables the
// free-text strategy.
func NewGenerator(tmdb MetadataClient, llm TextGenerator) *Generator {
	return &Generator{tmdb: tmdb, llm: llm}
}

// SimilarTo finds the top search match for title and returns its similar
// movies.
func (g *Generator) SimilarTo(ctx context.Context, title string) []models.Candidate {
	matches := g.tmdb.SearchMovies(ctx, title)
	if len(matches) == 0 {
		return nil
	}
	return g.tmdb.GetSimilarMovies(ctx, matches[0].ID)
}

// Discover runs one discovery call with the query's filters
func (g *Generator) Discover(ctx context.Context, q DiscoverQuery) []models.Candidate {
	return g.tmdb.DiscoverMovies(ctx, services.DiscoverParams{
		GenreIDs:       ResolveGenres(q.Genres),
		Year:           q.Year,
		Certifications: q.Certifications,
		SortBy:         q.SortBy,
		Page:           q.Page,
	})
}

// FromDescription asks the text generator for titles matching a mood and
// keeps the first search hit of each of the first MaxAITitles titles.
func (g *Generator) FromDescription(ctx context.Context, description string) []models.Candidate {
	if g.llm == nil {
		notice.Warn(ctx, "Gemini API key not provided. Skipping AI recommendations.")
		return nil
	}

	text, err := g.llm.GenerateContent(ctx, fmt.Sprintf(aiPromptTemplate, description))
	if err != nil {
		log.Error().Err(err).Msg("Gemini generation failed")
		notice.Error(ctx, "Error with Gemini AI: %v", err)
		return nil
	}

	var recommendations []models.Candidate
	for _, title := range ParseTitles(text, MaxAITitles) {
		if movies := g.tmdb.SearchMovies(ctx, title); len(movies) > 0 {
			recommendations = append(recommendations, movies[0])
		}
	}
	return recommendations
}

var listMarker = regexp.MustCompile(`^(?:[-*•]+|\d+[.)])\s*`)

// ParseTitles splits generated text into at most limit non-blank titles,
// one per line, with any list markers removed.
func ParseTitles(text string, limit int) []string {
	var titles []string
	for _, line := range strings.Split(text, "\n") {
		if len(titles) == limit {
			break
		}
		title := strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		if title != "" {
			titles = append(titles, title)
		}
	}
	return titles
}
