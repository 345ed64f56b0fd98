// Package export writes display cards as CSV downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cinematch/models"
)

// Header is the CSV column set, one column per display card field
var Header = []string{
	"title", "poster_url", "year", "rating", "age_rating",
	"overview", "streaming_providers", "trailer_url", "id",
}

// WriteCards writes cards as CSV with a header row
func WriteCards(w io.Writer, cards []models.DisplayCard) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, c := range cards {
		record := []string{
			c.Title,
			c.PosterURL,
			c.Year,
			strconv.FormatFloat(c.Rating, 'f', -1, 64),
			c.AgeRating,
			c.Overview,
			providerList(c.StreamingProviders),
			c.TrailerURL,
			strconv.Itoa(c.ID),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for %d: %w", c.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func providerList(providers []models.StreamingProvider) string {
	parts := make([]string, len(providers))
	for i, p := range providers {
		parts[i] = fmt.Sprintf("%s (%s)", p.Name, p.Type)
	}
	return strings.Join(parts, "; ")
}
