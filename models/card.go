// Package models defines the data structures used throughout the application.
package models

// Offer types for streaming providers, in display order
const (
	OfferFlatrate = "flatrate"
	OfferRent     = "rent"
	OfferBuy      = "buy"
)

// StreamingProvider is a provider offering a movie in the US region
type StreamingProvider struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Logo string `json:"logo"`
}

// DisplayCard is the render-ready view of a candidate. It is also the
// shape persisted for favorites.
type DisplayCard struct {
	Title              string              `json:"title"`
	PosterURL          string              `json:"poster_url"`
	Year               string              `json:"year"`
	Rating             float64             `json:"rating"`
	AgeRating          string              `json:"age_rating"`
	Overview           string              `json:"overview"`
	StreamingProviders []StreamingProvider `json:"streaming_providers"`
	TrailerURL         string              `json:"trailer_url"`
	ID                 int                 `json:"id"`
}
