package recommend

import (
	"context"

	"cinematch/models"

	"github.com/rs/zerolog/log"
)

// Pipeline turns a Query into display cards: retrieve, filter, format.
// It holds no per-request state; presentation layers only consume its
// output.
type Pipeline struct {
	generator *Generator
	formatter *Formatter
}

// NewPipeline wires a pipeline. llm may be nil.
func NewPipeline(tmdb MetadataClient, llm TextGenerator) *Pipeline {
	return &Pipeline{
		generator: NewGenerator(tmdb, llm),
		formatter: NewFormatter(tmdb),
	}
}

// Candidates runs only the retrieval strategy selected by q
func (p *Pipeline) Candidates(ctx context.Context, q Query) []models.Candidate {
	var movies []models.Candidate
	switch q.Strategy {
	case StrategySimilar:
		movies = p.generator.SimilarTo(ctx, q.Title)
	case StrategyDiscover:
		movies = p.generator.Discover(ctx, q.Discover)
	case StrategyAI:
		movies = p.generator.FromDescription(ctx, q.Description)
	default:
		log.Warn().Str("strategy", string(q.Strategy)).Msg("Unknown recommendation strategy")
		return nil
	}
	log.Info().Str("strategy", string(q.Strategy)).Int("candidates", len(movies)).Msg("Retrieved recommendations")
	return movies
}

// Cards filters movies and formats the survivors
func (p *Pipeline) Cards(ctx context.Context, movies []models.Candidate, minRating float64, maxResults int) []models.DisplayCard {
	return p.formatter.FormatAll(ctx, Filter(movies, minRating, maxResults))
}

// Format formats a single candidate
func (p *Pipeline) Format(ctx context.Context, movie models.Candidate) models.DisplayCard {
	return p.formatter.Format(ctx, movie)
}

// Run retrieves, filters and formats in one step
func (p *Pipeline) Run(ctx context.Context, q Query) []models.DisplayCard {
	return p.Cards(ctx, p.Candidates(ctx, q), q.MinRating, q.MaxResults)
}

// Lookup fetches a single candidate by TMDB id
func (p *Pipeline) Lookup(ctx context.Context, tmdbID int) (models.Candidate, bool) {
	detail := p.generator.tmdb.GetMovieDetails(ctx, tmdbID)
	if detail == nil {
		return models.Candidate{}, false
	}
	return detail.Candidate, true
}
