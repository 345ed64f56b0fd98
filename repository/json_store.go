package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cinematch/models"

	"github.com/rs/zerolog/log"
)

// JSONStore keeps favorites and ratings in two flat JSON files
type JSONStore struct {
	favoritesPath string
	ratingsPath   string
}

// NewJSONStore creates a store backed by the given files
func NewJSONStore(favoritesPath, ratingsPath string) *JSONStore {
	return &JSONStore{favoritesPath: favoritesPath, ratingsPath: ratingsPath}
}

// LoadFavorites reads the favorites list
func (s *JSONStore) LoadFavorites() ([]models.DisplayCard, LoadStatus, error) {
	var favorites []models.DisplayCard
	status, err := readJSON(s.favoritesPath, &favorites)
	if err != nil {
		return nil, status, err
	}
	return favorites, LoadOK, nil
}

// SaveFavorites overwrites the favorites file
func (s *JSONStore) SaveFavorites(favorites []models.DisplayCard) error {
	if favorites == nil {
		favorites = []models.DisplayCard{}
	}
	return writeJSON(s.favoritesPath, favorites)
}

// LoadRatings reads the ratings map. Entries outside 1..5 are dropped.
func (s *JSONStore) LoadRatings() (map[string]int, LoadStatus, error) {
	var ratings map[string]int
	status, err := readJSON(s.ratingsPath, &ratings)
	if err != nil {
		return nil, status, err
	}
	return sanitizeRatings(ratings), LoadOK, nil
}

// SaveRatings overwrites the ratings file
func (s *JSONStore) SaveRatings(ratings map[string]int) error {
	if ratings == nil {
		ratings = map[string]int{}
	}
	return writeJSON(s.ratingsPath, ratings)
}

// Close is a no-op for file storage
func (s *JSONStore) Close() error {
	return nil
}

func readJSON(path string, out interface{}) (LoadStatus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return LoadNotFound, fmt.Errorf("%s not found: %w", path, err)
		}
		return LoadUnreadable, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return LoadMalformed, fmt.Errorf("malformed %s: %w", path, err)
	}
	return LoadOK, nil
}

// writeJSON replaces path atomically via a temp file in the same directory
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			if err := os.Remove(tmpName); err != nil {
				log.Warn().Err(err).Str("path", tmpName).Msg("Failed to remove temp file")
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func sanitizeRatings(ratings map[string]int) map[string]int {
	clean := make(map[string]int, len(ratings))
	for id, stars := range ratings {
		if stars < 1 || stars > 5 {
			log.Warn().Str("movie_id", id).Int("rating", stars).Msg("Dropping out-of-range rating")
			continue
		}
		clean[id] = stars
	}
	return clean
}
