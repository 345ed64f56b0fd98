// Package services provides external service integrations.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cinematch/models"
	"cinematch/notice"

	"github.com/rs/zerolog/log"
)

// Default TMDB endpoints
const (
	DefaultTMDBBaseURL      = "https://api.themoviedb.org/3"
	DefaultTMDBImageBaseURL = "https://image.tmdb.org/t/p"
	CertificationCountry    = "US"
	DefaultSortBy           = "popularity.desc"
	tmdbLanguage            = "en-US"
)

// TMDBConfig configures a TMDBService
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
}

// TMDBService handles interactions with The Movie Database API.
//
// Every lookup is best-effort: failures are logged, reported on the
// request's notice collector where the user should see them, and the
// method returns an empty result.
type TMDBService struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	client       *http.Client
}

// DiscoverParams are the filters for a discover call
type DiscoverParams struct {
	GenreIDs       []int
	Year           int
	Certifications []string
	SortBy         string
	Page           int
}

type resultsPage struct {
	Page         int                `json:"page"`
	Results      []models.Candidate `json:"results"`
	TotalPages   int                `json:"total_pages"`
	TotalResults int                `json:"total_results"`
}

// NewTMDBService creates a new TMDB service instance
func NewTMDBService(cfg TMDBConfig) *TMDBService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTMDBBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultTMDBImageBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &TMDBService{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SearchMovies searches movies by title
func (t *TMDBService) SearchMovies(ctx context.Context, query string) []models.Candidate {
	params := url.Values{}
	params.Set("query", query)
	params.Set("language", tmdbLanguage)

	var page resultsPage
	if err := t.get(ctx, "/search/movie", params, &page); err != nil {
		log.Error().Err(err).Str("query", query).Msg("Error searching movies")
		notice.Error(ctx, "Error searching movies: %v", err)
		return nil
	}
	return page.Results
}

// DiscoverMovies lists movies matching the given filters.
//
// When certifications are requested the server-side filter is re-checked
// against each result's US certification; a result passes if its
// certification is in the requested set or is Not Rated.
func (t *TMDBService) DiscoverMovies(ctx context.Context, p DiscoverParams) []models.Candidate {
	params := DiscoverQuery(p)

	var page resultsPage
	if err := t.get(ctx, "/discover/movie", params, &page); err != nil {
		log.Error().Err(err).Str("params", params.Encode()).Msg("Error discovering movies")
		notice.Error(ctx, "Error discovering movies: %v", err)
		return nil
	}

	if len(p.Certifications) == 0 || len(page.Results) == 0 {
		return page.Results
	}

	var filtered []models.Candidate
	for _, movie := range page.Results {
		detail := t.GetMovieDetails(ctx, movie.ID)
		if detail == nil {
			continue
		}
		if CertificationAllowed(AgeRating(detail), p.Certifications) {
			filtered = append(filtered, movie)
		}
	}
	return filtered
}

// DiscoverQuery builds the query parameters for a discover call, without
// the API key.
func DiscoverQuery(p DiscoverParams) url.Values {
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	pageNum := p.Page
	if pageNum < 1 {
		pageNum = 1
	}

	params := url.Values{}
	params.Set("sort_by", sortBy)
	params.Set("page", strconv.Itoa(pageNum))
	params.Set("language", tmdbLanguage)

	if len(p.GenreIDs) > 0 {
		ids := make([]string, len(p.GenreIDs))
		for i, id := range p.GenreIDs {
			ids[i] = strconv.Itoa(id)
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}

	if p.Year > 0 {
		params.Set("year", strconv.Itoa(p.Year))
	}

	if len(p.Certifications) > 0 {
		params.Set("certification_country", CertificationCountry)
		params.Set("certification", strings.Join(p.Certifications, "|"))
	}

	return params
}

// GetMovieDetails fetches a movie with release dates, videos and watch
// providers appended. It returns nil on failure.
func (t *TMDBService) GetMovieDetails(ctx context.Context, tmdbID int) *models.MovieDetail {
	params := url.Values{}
	params.Set("append_to_response", "watch/providers,release_dates,videos")

	var detail models.MovieDetail
	if err := t.get(ctx, fmt.Sprintf("/movie/%d", tmdbID), params, &detail); err != nil {
		log.Error().Err(err).Int("movie_id", tmdbID).Msg("Error getting movie details")
		notice.Error(ctx, "Error getting movie details: %v", err)
		return nil
	}
	return &detail
}

// GetMovieTrailer returns the embed URL of the movie's first YouTube
// trailer, or "" when there is none or the lookup fails.
func (t *TMDBService) GetMovieTrailer(ctx context.Context, tmdbID int) string {
	params := url.Values{}
	params.Set("language", tmdbLanguage)

	var videos models.VideoList
	if err := t.get(ctx, fmt.Sprintf("/movie/%d/videos", tmdbID), params, &videos); err != nil {
		log.Warn().Err(err).Int("movie_id", tmdbID).Msg("Failed to fetch trailer")
		return ""
	}
	return TrailerURL(videos.Results)
}

// GetSimilarMovies returns TMDB's similar-movies list for a movie
func (t *TMDBService) GetSimilarMovies(ctx context.Context, tmdbID int) []models.Candidate {
	params := url.Values{}
	params.Set("language", tmdbLanguage)

	var page resultsPage
	if err := t.get(ctx, fmt.Sprintf("/movie/%d/similar", tmdbID), params, &page); err != nil {
		log.Error().Err(err).Int("movie_id", tmdbID).Msg("Error finding similar movies")
		notice.Error(ctx, "Error finding similar movies: %v", err)
		return nil
	}
	return page.Results
}

// GetStreamingProviders returns US providers grouped flatrate, rent, buy
func (t *TMDBService) GetStreamingProviders(ctx context.Context, tmdbID int) []models.StreamingProvider {
	var set models.WatchProviderSet
	if err := t.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", tmdbID), nil, &set); err != nil {
		log.Warn().Err(err).Int("movie_id", tmdbID).Msg("Failed to fetch streaming providers")
		return nil
	}
	return t.providersFor(set, CertificationCountry)
}

// ImageURL joins a TMDB image path onto the image base at the given size
func (t *TMDBService) ImageURL(size, path string) string {
	return t.imageBaseURL + "/" + size + path
}

func (t *TMDBService) providersFor(set models.WatchProviderSet, country string) []models.StreamingProvider {
	region, ok := set.Results[country]
	if !ok {
		return nil
	}

	var providers []models.StreamingProvider
	groups := []struct {
		offer string
		list  []models.WatchProvider
	}{
		{models.OfferFlatrate, region.Flatrate},
		{models.OfferRent, region.Rent},
		{models.OfferBuy, region.Buy},
	}
	for _, g := range groups {
		for _, p := range g.list {
			providers = append(providers, models.StreamingProvider{
				Name: p.ProviderName,
				Type: g.offer,
				Logo: t.ImageURL("w45", p.LogoPath),
			})
		}
	}
	return providers
}

func (t *TMDBService) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", t.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build TMDB request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach TMDB: %w", redactKey(err, t.apiKey))
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode TMDB response: %w", err)
	}
	return nil
}

// redactKey strips the API key from transport errors, which embed the URL
// in raw or query-escaped form
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := err.Error()
	redacted := strings.ReplaceAll(msg, key, "REDACTED")
	redacted = strings.ReplaceAll(redacted, url.QueryEscape(key), "REDACTED")
	if redacted == msg {
		return err
	}
	return fmt.Errorf("%s", redacted)
}
