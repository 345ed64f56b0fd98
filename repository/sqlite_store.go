package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"cinematch/database"
	"cinematch/models"

	"github.com/rs/zerolog/log"
)

// SQLiteStore keeps favorites and ratings in sqlite tables. Saves replace
// the table contents inside one transaction, mirroring the file store's
// full-overwrite semantics.
type SQLiteStore struct {
	db *database.DB
}

// NewSQLiteStore creates a store on an initialized database
func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLiteStore opens path, initializes the schema and returns a store
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := database.NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(); err != nil {
		if cerr := db.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("Failed to close database")
		}
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

// LoadFavorites returns favorites in insertion order
func (s *SQLiteStore) LoadFavorites() ([]models.DisplayCard, LoadStatus, error) {
	rows, err := s.db.Query(`SELECT movie_id, card FROM favorites ORDER BY position ASC`)
	if err != nil {
		return nil, LoadUnreadable, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close rows")
		}
	}()

	var favorites []models.DisplayCard
	for rows.Next() {
		var movieID int
		var raw string
		if err := rows.Scan(&movieID, &raw); err != nil {
			return nil, LoadUnreadable, fmt.Errorf("failed to scan favorite: %w", err)
		}

		var card models.DisplayCard
		if err := json.Unmarshal([]byte(raw), &card); err != nil {
			return nil, LoadMalformed, fmt.Errorf("malformed favorite %d: %w", movieID, err)
		}
		card.ID = movieID
		favorites = append(favorites, card)
	}

	if err := rows.Err(); err != nil {
		return nil, LoadUnreadable, fmt.Errorf("error iterating over favorites: %w", err)
	}

	return favorites, LoadOK, nil
}

// SaveFavorites replaces all favorites
func (s *SQLiteStore) SaveFavorites(favorites []models.DisplayCard) error {
	return s.replace("favorites", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO favorites (movie_id, position, card) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare favorite insert: %w", err)
		}
		defer stmt.Close()

		for i, card := range favorites {
			raw, err := json.Marshal(card)
			if err != nil {
				return fmt.Errorf("failed to encode favorite %d: %w", card.ID, err)
			}
			if _, err := stmt.Exec(card.ID, i, string(raw)); err != nil {
				return fmt.Errorf("failed to insert favorite %d: %w", card.ID, err)
			}
		}
		return nil
	})
}

// LoadRatings returns all ratings keyed by movie id
func (s *SQLiteStore) LoadRatings() (map[string]int, LoadStatus, error) {
	rows, err := s.db.Query(`SELECT movie_id, rating FROM user_ratings`)
	if err != nil {
		return nil, LoadUnreadable, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close rows")
		}
	}()

	ratings := make(map[string]int)
	for rows.Next() {
		var movieID string
		var rating int
		if err := rows.Scan(&movieID, &rating); err != nil {
			return nil, LoadUnreadable, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings[movieID] = rating
	}

	if err := rows.Err(); err != nil {
		return nil, LoadUnreadable, fmt.Errorf("error iterating over ratings: %w", err)
	}

	return sanitizeRatings(ratings), LoadOK, nil
}

// SaveRatings replaces all ratings
func (s *SQLiteStore) SaveRatings(ratings map[string]int) error {
	return s.replace("user_ratings", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO user_ratings (movie_id, rating) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare rating insert: %w", err)
		}
		defer stmt.Close()

		for movieID, rating := range ratings {
			if _, err := stmt.Exec(movieID, rating); err != nil {
				return fmt.Errorf("failed to insert rating for %s: %w", movieID, err)
			}
		}
		return nil
	})
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) replace(table string, insert func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			log.Warn().Err(err).Str("table", table).Msg("Failed to roll back")
		}
	}()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", table, err)
	}
	return nil
}
