package recommend

import (
	"context"

	"cinematch/models"
	"cinematch/services"
)

// Card defaults for missing candidate fields
const (
	PlaceholderPoster = "https://via.placeholder.com/500x750?text=No+Poster"
	UnknownTitle      = "Unknown Title"
	NoOverview        = "No description available."
	UnknownYear       = "N/A"
)

// Formatter enriches candidates into display cards. Each card costs a
// detail, a providers and a trailer lookup, issued sequentially.
type Formatter struct {
	tmdb MetadataClient
}

// NewFormatter creates a formatter backed by tmdb
func NewFormatter(tmdb MetadataClient) *Formatter {
	return &Formatter{tmdb: tmdb}
}

// Format builds the display card for one candidate
func (f *Formatter) Format(ctx context.Context, movie models.Candidate) models.DisplayCard {
	poster := PlaceholderPoster
	if movie.PosterPath != "" {
		poster = f.tmdb.ImageURL("w500", movie.PosterPath)
	}

	detail := f.tmdb.GetMovieDetails(ctx, movie.ID)
	providers := f.tmdb.GetStreamingProviders(ctx, movie.ID)
	trailer := f.tmdb.GetMovieTrailer(ctx, movie.ID)

	card := models.DisplayCard{
		Title:              movie.Title,
		PosterURL:          poster,
		Year:               UnknownYear,
		Rating:             movie.VoteAverage,
		AgeRating:          services.AgeRating(detail),
		Overview:           movie.Overview,
		StreamingProviders: providers,
		TrailerURL:         trailer,
		ID:                 movie.ID,
	}
	if card.Title == "" {
		card.Title = UnknownTitle
	}
	if card.Overview == "" {
		card.Overview = NoOverview
	}
	if len(movie.ReleaseDate) >= 4 {
		card.Year = movie.ReleaseDate[:4]
	}
	return card
}

// FormatAll formats candidates in order
func (f *Formatter) FormatAll(ctx context.Context, movies []models.Candidate) []models.DisplayCard {
	cards := make([]models.DisplayCard, 0, len(movies))
	for _, m := range movies {
		cards = append(cards, f.Format(ctx, m))
	}
	return cards
}
