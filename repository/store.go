// Package repository persists favorites and user ratings.
package repository

import (
	"cinematch/models"
)

// LoadStatus tells the caller why a load returned what it did
type LoadStatus int

// Load outcomes
const (
	LoadOK LoadStatus = iota
	LoadNotFound
	LoadMalformed
	LoadUnreadable
)

func (s LoadStatus) String() string {
	switch s {
	case LoadOK:
		return "ok"
	case LoadNotFound:
		return "not_found"
	case LoadMalformed:
		return "malformed"
	case LoadUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// FavoritesStore loads and fully overwrites the favorites list
type FavoritesStore interface {
	LoadFavorites() ([]models.DisplayCard, LoadStatus, error)
	SaveFavorites(favorites []models.DisplayCard) error
}

// RatingsStore loads and fully overwrites the ratings map
type RatingsStore interface {
	LoadRatings() (map[string]int, LoadStatus, error)
	SaveRatings(ratings map[string]int) error
}

// Store persists both collections
type Store interface {
	FavoritesStore
	RatingsStore
	Close() error
}
