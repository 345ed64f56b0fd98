package recommend

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog/log"
)

// Genres maps TMDB genre names to ids
var Genres = map[string]int{
	"Action":          28,
	"Adventure":       12,
	"Animation":       16,
	"Comedy":          35,
	"Crime":           80,
	"Documentary":     99,
	"Drama":           18,
	"Family":          10751,
	"Fantasy":         14,
	"History":         36,
	"Horror":          27,
	"Music":           10402,
	"Mystery":         9648,
	"Romance":         10749,
	"Science Fiction": 878,
	"TV Movie":        10770,
	"Thriller":        53,
	"War":             10752,
	"Western":         37,
}

// Certifications are the selectable US age ratings
var Certifications = []string{"G", "PG", "PG-13", "R", "NC-17"}

// SortOption pairs a display label with a TMDB sort key
type SortOption struct {
	Label string
	Key   string
}

// SortOptions in display order
var SortOptions = []SortOption{
	{"Popularity (High to Low)", "popularity.desc"},
	{"Popularity (Low to High)", "popularity.asc"},
	{"Rating (High to Low)", "vote_average.desc"},
	{"Rating (Low to High)", "vote_average.asc"},
	{"Release Date (Newest)", "release_date.desc"},
	{"Release Date (Oldest)", "release_date.asc"},
	{"Title (A-Z)", "title.asc"},
	{"Title (Z-A)", "title.desc"},
}

// GenreNames returns the genre names sorted alphabetically
func GenreNames() []string {
	names := make([]string, 0, len(Genres))
	for name := range Genres {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// minFuzzyLen is the shortest name tried against the fuzzy fallback
const minFuzzyLen = 4

// ResolveGenres translates genre names to TMDB ids, preserving order and
// dropping duplicates. Names are matched case-insensitively, then by a
// fuzzy match that must hit exactly one genre ("sci-fi" resolves to
// Science Fiction). Names that match nothing, or more than one genre, are
// ignored.
func ResolveGenres(names []string) []int {
	all := GenreNames()
	seen := make(map[int]bool)
	var ids []int

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, ok := lookupGenre(name, all)
		if !ok {
			log.Debug().Str("genre", name).Msg("Ignoring unknown genre")
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func lookupGenre(name string, all []string) (int, bool) {
	for _, g := range all {
		if strings.EqualFold(g, name) {
			return Genres[g], true
		}
	}

	needle := strings.NewReplacer("-", "", " ", "").Replace(name)
	if len([]rune(needle)) < minFuzzyLen {
		return 0, false
	}
	ranks := fuzzy.RankFindFold(needle, all)
	if len(ranks) != 1 {
		return 0, false
	}
	return Genres[ranks[0].Target], true
}
