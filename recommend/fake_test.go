package recommend

import (
	"context"
	"errors"

	"cinematch/models"
	"cinematch/services"
)

// fakeTMDB is an in-memory MetadataClient that records its calls
type fakeTMDB struct {
	search    map[string][]models.Candidate
	similar   map[int][]models.Candidate
	discover  []models.Candidate
	details   map[int]*models.MovieDetail
	trailers  map[int]string
	providers map[int][]models.StreamingProvider

	searches     []string
	similarCalls []int
	discoverArgs []services.DiscoverParams
	detailCalls  []int
}

func newFakeTMDB() *fakeTMDB {
	return &fakeTMDB{
		search:    map[string][]models.Candidate{},
		similar:   map[int][]models.Candidate{},
		details:   map[int]*models.MovieDetail{},
		trailers:  map[int]string{},
		providers: map[int][]models.StreamingProvider{},
	}
}

func (f *fakeTMDB) SearchMovies(_ context.Context, query string) []models.Candidate {
	f.searches = append(f.searches, query)
	return f.search[query]
}

func (f *fakeTMDB) DiscoverMovies(_ context.Context, p services.DiscoverParams) []models.Candidate {
	f.discoverArgs = append(f.discoverArgs, p)
	return f.discover
}

func (f *fakeTMDB) GetSimilarMovies(_ context.Context, id int) []models.Candidate {
	f.similarCalls = append(f.similarCalls, id)
	return f.similar[id]
}

func (f *fakeTMDB) GetMovieDetails(_ context.Context, id int) *models.MovieDetail {
	f.detailCalls = append(f.detailCalls, id)
	return f.details[id]
}

func (f *fakeTMDB) GetMovieTrailer(_ context.Context, id int) string {
	return f.trailers[id]
}

func (f *fakeTMDB) GetStreamingProviders(_ context.Context, id int) []models.StreamingProvider {
	return f.providers[id]
}

func (f *fakeTMDB) ImageURL(size, path string) string {
	return "https://img.test/" + size + path
}

// fakeLLM returns a canned response
type fakeLLM struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

var errLLMDown = errors.New("quota exceeded")
