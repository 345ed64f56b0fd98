package recommend

import "cinematch/models"

// Filter keeps candidates rated at least minRating, in input order, and
// truncates the result to maxResults. maxResults <= 0 means no cap.
func Filter(movies []models.Candidate, minRating float64, maxResults int) []models.Candidate {
	filtered := make([]models.Candidate, 0, len(movies))
	for _, m := range movies {
		if maxResults > 0 && len(filtered) == maxResults {
			break
		}
		if m.VoteAverage >= minRating {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
