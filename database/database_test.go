package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.InitSchema())

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	}
	return db, cleanup
}

func TestInitSchema_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, db.InitSchema())

	for _, table := range []string{"favorites", "user_ratings"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, table)
	}
}

func TestUserRatings_RejectsOutOfRange(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.Exec(`INSERT INTO user_ratings (movie_id, rating) VALUES ('603', 5)`)
	assert.NoError(t, err)

	_, err = db.Exec(`INSERT INTO user_ratings (movie_id, rating) VALUES ('604', 6)`)
	assert.Error(t, err)
}
