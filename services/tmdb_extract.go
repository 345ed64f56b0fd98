package services

import (
	"strings"

	"cinematch/models"
)

// Video platform and type that qualify as a trailer
const (
	trailerSite     = "YouTube"
	trailerType     = "Trailer"
	youTubeEmbedURL = "https://www.youtube.com/embed/"
)

// AgeRating returns the first non-blank US certification in the detail's
// release records, or models.NotRated.
func AgeRating(detail *models.MovieDetail) string {
	if detail == nil {
		return models.NotRated
	}
	for _, country := range detail.ReleaseDates.Results {
		if country.Country != CertificationCountry {
			continue
		}
		for _, release := range country.Releases {
			if cert := strings.TrimSpace(release.Certification); cert != "" {
				return cert
			}
		}
	}
	return models.NotRated
}

// CertificationAllowed reports whether cert passes a certification filter.
// Not Rated always passes.
func CertificationAllowed(cert string, allowed []string) bool {
	if cert == models.NotRated {
		return true
	}
	for _, a := range allowed {
		if a == cert {
			return true
		}
	}
	return false
}

// TrailerURL returns the embed URL of the first YouTube trailer in videos
func TrailerURL(videos []models.Video) string {
	for _, v := range videos {
		if v.Site == trailerSite && v.Type == trailerType && v.Key != "" {
			return youTubeEmbedURL + v.Key
		}
	}
	return ""
}
