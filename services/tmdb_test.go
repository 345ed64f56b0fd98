package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"cinematch/models"
	"cinematch/notice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTMDB serves canned JSON per path and records every query it sees
type fakeTMDB struct {
	mu        sync.Mutex
	responses map[string]interface{}
	status    map[string]int
	queries   map[string][]url.Values
}

func newFakeTMDB() *fakeTMDB {
	return &fakeTMDB{
		responses: map[string]interface{}{},
		status:    map[string]int{},
		queries:   map[string][]url.Values{},
	}
}

func (f *fakeTMDB) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.queries[r.URL.Path] = append(f.queries[r.URL.Path], r.URL.Query())
	body, ok := f.responses[r.URL.Path]
	status := f.status[r.URL.Path]
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeTMDB) calls(path string) []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[path]
}

func setupTMDB(t *testing.T) (*TMDBService, *fakeTMDB) {
	fake := newFakeTMDB()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc := NewTMDBService(TMDBConfig{
		APIKey:       "test-key",
		BaseURL:      srv.URL,
		ImageBaseURL: "https://img.test/t/p",
	})
	return svc, fake
}

func page(movies ...models.Candidate) map[string]interface{} {
	return map[string]interface{}{"page": 1, "results": movies}
}

func usDetail(id int, cert string) map[string]interface{} {
	return map[string]interface{}{
		"id":    id,
		"title": "Movie",
		"release_dates": map[string]interface{}{
			"results": []interface{}{
				map[string]interface{}{
					"iso_3166_1":    "US",
					"release_dates": []interface{}{map[string]interface{}{"certification": cert}},
				},
			},
		},
	}
}

func TestTMDBService_SearchMovies(t *testing.T) {
	svc, fake := setupTMDB(t)
	fake.responses["/search/movie"] = page(
		models.Candidate{ID: 603, Title: "The Matrix", VoteAverage: 8.2, ReleaseDate: "1999-03-30"},
		models.Candidate{ID: 604, Title: "The Matrix Reloaded"},
	)

	results := svc.SearchMovies(context.Background(), "The Matrix")

	require.Len(t, results, 2)
	assert.Equal(t, 603, results[0].ID)
	assert.Equal(t, 8.2, results[0].VoteAverage)

	q := fake.calls("/search/movie")[0]
	assert.Equal(t, "test-key", q.Get("api_key"))
	assert.Equal(t, "The Matrix", q.Get("query"))
	assert.Equal(t, "en-US", q.Get("language"))
}

func TestTMDBService_SearchMovies_FailureIsEmptyWithNotice(t *testing.T) {
	svc, fake := setupTMDB(t)
	fake.status["/search/movie"] = http.StatusInternalServerError

	c := &notice.Collector{}
	ctx := notice.WithCollector(context.Background(), c)

	results := svc.SearchMovies(ctx, "anything")

	assert.Empty(t, results)
	require.Len(t, c.All(), 1)
	assert.Equal(t, notice.LevelError, c.All()[0].Level)
	assert.Contains(t, c.All()[0].Message, "Error searching movies")
	assert.NotContains(t, c.All()[0].Message, "test-key")
}

func TestTMDBService_SearchMovies_Unreachable(t *testing.T) {
	svc := NewTMDBService(TMDBConfig{APIKey: "secret", BaseURL: "http://127.0.0.1:1"})
	c := &notice.Collector{}

	results := svc.SearchMovies(notice.WithCollector(context.Background(), c), "x")

	assert.Nil(t, results)
	require.Len(t, c.All(), 1)
	assert.NotContains(t, c.All()[0].Message, "secret")
}

func TestRedactKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		key  string
		want string
	}{
		{"raw key", errors.New("Get http://x?api_key=abc: boom"), "abc", "Get http://x?api_key=REDACTED: boom"},
		{"escaped key", errors.New("Get http://x?api_key=a%2Bb%2F: boom"), "a+b/", "Get http://x?api_key=REDACTED: boom"},
		{"no key present", errors.New("boom"), "abc", "boom"},
		{"empty key", errors.New("boom"), "", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactKey(tt.err, tt.key)
			assert.Equal(t, tt.want, got.Error())
			if tt.key != "" {
				assert.NotContains(t, got.Error(), tt.key)
				assert.NotContains(t, got.Error(), url.QueryEscape(tt.key))
			}
		})
	}
}

func TestDiscoverQuery(t *testing.T) {
	q := DiscoverQuery(DiscoverParams{
		GenreIDs:       []int{27},
		Year:           2020,
		Certifications: []string{"R"},
	})

	assert.Equal(t, "27", q.Get("with_genres"))
	assert.Equal(t, "2020", q.Get("year"))
	assert.Equal(t, "US", q.Get("certification_country"))
	assert.Equal(t, "R", q.Get("certification"))
	assert.Equal(t, "popularity.desc", q.Get("sort_by"))
	assert.Equal(t, "1", q.Get("page"))
}

func TestDiscoverQuery_MultipleValuesAndNoFilters(t *testing.T) {
	q := DiscoverQuery(DiscoverParams{
		GenreIDs:       []int{28, 12},
		Certifications: []string{"PG", "PG-13"},
		SortBy:         "vote_average.desc",
		Page:           3,
	})
	assert.Equal(t, "28,12", q.Get("with_genres"))
	assert.Equal(t, "PG|PG-13", q.Get("certification"))
	assert.Equal(t, "vote_average.desc", q.Get("sort_by"))
	assert.Equal(t, "3", q.Get("page"))
	assert.Empty(t, q.Get("year"))

	bare := DiscoverQuery(DiscoverParams{})
	assert.Empty(t, bare.Get("with_genres"))
	assert.Empty(t, bare.Get("certification_country"))
	assert.Empty(t, bare.Get("certification"))
}

func TestTMDBService_DiscoverMovies_ClientSideCertificationFilter(t *testing.T) {
	svc, fake := setupTMDB(t)
	fake.responses["/discover/movie"] = page(
		models.Candidate{ID: 1, Title: "Rated R"},
		models.Candidate{ID: 2, Title: "Rated PG"},
		models.Candidate{ID: 3, Title: "Unrated"},
		models.Candidate{ID: 4, Title: "Detail fails"},
	)
	fake.responses["/movie/1"] = usDetail(1, "R")
	fake.responses["/movie/2"] = usDetail(2, "PG")
	fake.responses["/movie/3"] = usDetail(3, "")
	fake.status["/movie/4"] = http.StatusInternalServerError

	results := svc.DiscoverMovies(context.Background(), DiscoverParams{
		GenreIDs:       []int{27},
		Year:           2020,
		Certifications: []string{"R"},
	})

	var ids []int
	for _, m := range results {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int{1, 3}, ids)

	q := fake.calls("/discover/movie")[0]
	assert.Equal(t, "27", q.Get("with_genres"))
	assert.Equal(t, "2020", q.Get("year"))
	assert.Equal(t, "US", q.Get("certification_country"))
	assert.Equal(t, "R", q.Get("certification"))

	detailQ := fake.calls("/movie/1")[0]
	assert.Equal(t, "watch/providers,release_dates,videos", detailQ.Get("append_to_response"))
}

func TestTMDBService_DiscoverMovies_NoCertificationsSkipsDetails(t *testing.T) {
	svc, fake := setupTMDB(t)
	fake.responses["/discover/movie"] = page(models.Candidate{ID: 1}, models.Candidate{ID: 2})

	results := svc.DiscoverMovies(context.Background(), DiscoverParams{})

	assert.Len(t, results, 2)
	assert.Empty(t, fake.calls("/movie/1"))
}

func TestTMDBService_GetMovieDetails(t *testing.T) {
	svc, fake := setupTMDB(t)
	fake.responses["/movie/603"] = map[string]interface{}{
		"id":      603,
		"title":   "The Matrix",
		"runtime": 136,
		"release_dates": map[string]interface{}{
			"results": []interface{}{
				map[string]interface{}{
					"iso_3166_1":    "GB",
					"release_dates": []interface{}{map[string]interface{}{"certification": "15"}},
				},
				map[string]interface{}{
					"iso_3166_1": "US",
					"release_dates": []interface{}{
						map[string]interface{}{"certification": " "},
						map[string]interface{}{"certification": "R"},
					},
				},
			},
		},
		"videos": map[string]interface{}{
			"results": []interface{}{map[string]interface{}{"key": "abc", "site": "YouTube", "type": "Trailer"}},
		},
	}

	detail := svc.GetMovieDetails(context.Background(), 603)

	require.NotNil(t, detail)
	assert.Equal(t, "The Matrix", detail.Title)
	assert.Equal(t, 136, detail.Runtime)
	assert.Equal(t, "R", AgeRating(detail))
	assert.Equal(t, "https://www.youtube.com/embed/abc", TrailerURL(detail.Videos.Results))
}

func TestTMDBService_GetMovieDetails_Failure(t *testing.T) {
	svc, _ := setupTMDB(t)
	assert.Nil(t, svc.GetMovieDetails(context.Background(), 42))
}

func TestTMDBService_GetMovieTrailer(t *testing.T) {
	svc, fake := setupTMDB(t)
	fake.responses["/movie/603/videos"] = map[string]interface{}{
		"results": []interface{}{
			map[string]interface{}{"key": "teaser", "site": "YouTube", "type": "Teaser"},
			map[string]interface{}{"key": "vimeo", "site": "Vimeo", "type": "Trailer"},
			map[string]interface{}{"key": "first", "site": "YouTube", "type": "Trailer"},
			map[string]interface{}{"key": "second", "site": "YouTube", "type": "Trailer"},
		},
	}

	assert.Equal(t, "https://www.youtube.com/embed/first", svc.GetMovieTrailer(context.Background(), 603))
	assert.Equal(t, "", svc.GetMovieTrailer(context.Background(), 999))
}

func TestTMDBService_GetMovieTrailer_FailureIsSilent(t *testing.T) {
	svc, fake := setupTMDB(t)
	fake.status["/movie/1/videos"] = http.StatusBadGateway
	c := &notice.Collector{}

	assert.Equal(t, "", svc.GetMovieTrailer(notice.WithCollector(context.Background(), c), 1))
	assert.Empty(t, c.All())
}

func TestTMDBService_GetSimilarMovies(t *testing.T) {
	svc, fake := setupTMDB(t)
	fake.responses["/movie/603/similar"] = page(models.Candidate{ID: 10}, models.Candidate{ID: 11})

	results := svc.GetSimilarMovies(context.Background(), 603)

	require.Len(t, results, 2)
	assert.Equal(t, 10, results[0].ID)
	assert.Equal(t, "en-US", fake.calls("/movie/603/similar")[0].Get("language"))
}

func TestTMDBService_GetStreamingProviders(t *testing.T) {
	svc, fake := setupTMDB(t)
	fake.responses["/movie/603/watch/providers"] = map[string]interface{}{
		"results": map[string]interface{}{
			"US": map[string]interface{}{
				"buy":      []interface{}{map[string]interface{}{"provider_name": "Apple TV", "logo_path": "/apple.jpg"}},
				"flatrate": []interface{}{map[string]interface{}{"provider_name": "Max", "logo_path": "/max.jpg"}},
				"rent":     []interface{}{map[string]interface{}{"provider_name": "Vudu", "logo_path": "/vudu.jpg"}},
			},
			"GB": map[string]interface{}{
				"flatrate": []interface{}{map[string]interface{}{"provider_name": "Netflix", "logo_path": "/n.jpg"}},
			},
		},
	}

	providers := svc.GetStreamingProviders(context.Background(), 603)

	assert.Equal(t, []models.StreamingProvider{
		{Name: "Max", Type: "flatrate", Logo: "https://img.test/t/p/w45/max.jpg"},
		{Name: "Vudu", Type: "rent", Logo: "https://img.test/t/p/w45/vudu.jpg"},
		{Name: "Apple TV", Type: "buy", Logo: "https://img.test/t/p/w45/apple.jpg"},
	}, providers)
}

func TestTMDBService_GetStreamingProviders_NoUSRegion(t *testing.T) {
	svc, fake := setupTMDB(t)
	fake.responses["/movie/1/watch/providers"] = map[string]interface{}{"results": map[string]interface{}{}}

	assert.Empty(t, svc.GetStreamingProviders(context.Background(), 1))
}
