package recommend

import (
	"math/rand"
	"testing"

	"cinematch/models"

	"github.com/stretchr/testify/assert"
)

func ratedMovies(ratings ...float64) []models.Candidate {
	movies := make([]models.Candidate, len(ratings))
	for i, r := range ratings {
		movies[i] = models.Candidate{ID: i + 1, VoteAverage: r}
	}
	return movies
}

func ids(movies []models.Candidate) []int {
	out := make([]int, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	movies := ratedMovies(7.5, 5.0, 8.1, 6.9, 9.0)

	testCases := []struct {
		name       string
		minRating  float64
		maxResults int
		want       []int
	}{
		{"no floor no cap", 0, 0, []int{1, 2, 3, 4, 5}},
		{"floor is inclusive", 7.5, 0, []int{1, 3, 5}},
		{"cap after floor", 6.0, 2, []int{1, 3}},
		{"cap larger than input", 0, 100, []int{1, 2, 3, 4, 5}},
		{"nothing passes", 9.5, 10, []int{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Filter(movies, tc.minRating, tc.maxResults)))
		})
	}
}

func TestFilter_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		n := rng.Intn(30)
		ratings := make([]float64, n)
		for j := range ratings {
			ratings[j] = float64(rng.Intn(101)) / 10
		}
		movies := ratedMovies(ratings...)
		minRating := float64(rng.Intn(101)) / 10
		maxResults := rng.Intn(25)

		out := Filter(movies, minRating, maxResults)

		if maxResults > 0 {
			assert.LessOrEqual(t, len(out), maxResults)
		}
		next := 0
		for _, m := range out {
			assert.GreaterOrEqual(t, m.VoteAverage, minRating)
			// ordered subsequence of the input
			for next < len(movies) && movies[next].ID != m.ID {
				next++
			}
			assert.Less(t, next, len(movies))
			next++
		}
		assert.Equal(t, out, Filter(movies, minRating, maxResults))
	}
}
