// Package session holds the state of one interactive browsing session:
// the current candidates, favorites, ratings and theme.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"cinematch/models"
	"cinematch/notice"
	"cinematch/repository"

	"github.com/rs/zerolog/log"
)

// ErrInvalidRating is returned for ratings outside 1..5
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Rating bounds
const (
	MinStars = 1
	MaxStars = 5
)

// Session is constructed once and shared by all handlers. Mutations that
// touch favorites or ratings are written through to the store before
// returning.
type Session struct {
	mu         sync.RWMutex
	store      repository.Store
	candidates []models.Candidate
	favorites  []models.DisplayCard
	ratings    map[string]int
	darkMode   bool
	notices    []notice.Notice
}

// New creates a session and rehydrates favorites and ratings from store.
// Load failures leave the affected collection empty.
func New(store repository.Store) *Session {
	s := &Session{
		store:   store,
		ratings: make(map[string]int),
	}

	favorites, status, err := store.LoadFavorites()
	logLoad("favorites", status, err)
	if err == nil {
		s.favorites = dedupe(favorites)
	}

	ratings, status, err := store.LoadRatings()
	logLoad("ratings", status, err)
	if err == nil && ratings != nil {
		s.ratings = ratings
	}

	return s
}

func logLoad(what string, status repository.LoadStatus, err error) {
	switch {
	case err == nil:
		log.Debug().Str("collection", what).Msg("Loaded from store")
	case status == repository.LoadNotFound:
		log.Debug().Str("collection", what).Msg("Nothing stored yet, starting empty")
	default:
		log.Warn().Err(err).Str("collection", what).Stringer("status", status).Msg("Could not load, starting empty")
	}
}

func dedupe(cards []models.DisplayCard) []models.DisplayCard {
	seen := make(map[int]bool, len(cards))
	out := make([]models.DisplayCard, 0, len(cards))
	for _, c := range cards {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

// Candidates returns the current recommendation candidates
func (s *Session) Candidates() []models.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// SetCandidates replaces the current candidates
func (s *Session) SetCandidates(movies []models.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = movies
}

// Candidate finds a current candidate by id
func (s *Session) Candidate(id int) (models.Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.candidates {
		if c.ID == id {
			return c, true
		}
	}
	return models.Candidate{}, false
}

// Favorites returns the favorites in insertion order
func (s *Session) Favorites() []models.DisplayCard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DisplayCard, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// IsFavorite reports whether id is among the favorites
func (s *Session) IsFavorite(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

func (s *Session) indexOf(id int) int {
	for i, f := range s.favorites {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// AddFavorite appends card unless a favorite with the same id exists.
// It reports whether the card was added.
func (s *Session) AddFavorite(card models.DisplayCard) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(card.ID) >= 0 {
		return false, nil
	}

	next := append(append([]models.DisplayCard{}, s.favorites...), card)
	if err := s.store.SaveFavorites(next); err != nil {
		return false, fmt.Errorf("failed to save favorites: %w", err)
	}
	s.favorites = next
	return true, nil
}

// RemoveFavorite drops the favorite with id. It reports whether one was
// removed.
func (s *Session) RemoveFavorite(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := make([]models.DisplayCard, 0, len(s.favorites)-1)
	next = append(next, s.favorites[:i]...)
	next = append(next, s.favorites[i+1:]...)
	if err := s.store.SaveFavorites(next); err != nil {
		return false, fmt.Errorf("failed to save favorites: %w", err)
	}
	s.favorites = next
	return true, nil
}

// ClearFavorites removes every favorite
func (s *Session) ClearFavorites() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveFavorites([]models.DisplayCard{}); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	s.favorites = nil
	return nil
}

// Rating returns the user's stars for a movie, 0 when unrated
func (s *Session) Rating(id int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ratings[strconv.Itoa(id)]
}

// Rate sets the user's stars for a movie, overwriting any previous value
func (s *Session) Rate(id, stars int) error {
	if stars < MinStars || stars > MaxStars {
		return ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]int, len(s.ratings)+1)
	for k, v := range s.ratings {
		next[k] = v
	}
	next[strconv.Itoa(id)] = stars

	if err := s.store.SaveRatings(next); err != nil {
		return fmt.Errorf("failed to save ratings: %w", err)
	}
	s.ratings = next
	return nil
}

// Ratings returns a copy of all ratings
func (s *Session) Ratings() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int, len(s.ratings))
	for k, v := range s.ratings {
		out[k] = v
	}
	return out
}

// DarkMode reports the theme flag
func (s *Session) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.darkMode
}

// ToggleTheme flips the theme flag and returns the new value
func (s *Session) ToggleTheme() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = !s.darkMode
	return s.darkMode
}

// SetNotices stores notices to show on the next page render
func (s *Session) SetNotices(notices []notice.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = notices
}

// TakeNotices returns and clears the pending notices
func (s *Session) TakeNotices() []notice.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	return out
}
