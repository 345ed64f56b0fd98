package models

// NotRated is the age rating used when no US certification is known
const NotRated = "Not Rated"

// Candidate is a movie as returned by TMDB search, discover and similar
// endpoints, before enrichment.
type Candidate struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
}

// MovieDetail is the full TMDB movie record with the release_dates, videos
// and watch/providers append-ons.
type MovieDetail struct {
	Candidate
	Runtime      int              `json:"runtime"`
	Genres       []Genre          `json:"genres"`
	ReleaseDates ReleaseDates     `json:"release_dates"`
	Videos       VideoList        `json:"videos"`
	Providers    WatchProviderSet `json:"watch/providers"`
}

// Genre represents a movie genre from TMDB
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ReleaseDates groups release records by country
type ReleaseDates struct {
	Results []CountryReleases `json:"results"`
}

// CountryReleases holds the release records for one country
type CountryReleases struct {
	Country  string    `json:"iso_3166_1"`
	Releases []Release `json:"release_dates"`
}

// Release is a single release record carrying a certification
type Release struct {
	Certification string `json:"certification"`
	ReleaseDate   string `json:"release_date"`
	Type          int    `json:"type"`
}

// VideoList is the TMDB videos response
type VideoList struct {
	Results []Video `json:"results"`
}

// Video is a trailer, teaser or clip hosted on an external site
type Video struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

// WatchProviderSet is the watch/providers response keyed by country code
type WatchProviderSet struct {
	Results map[string]CountryProviders `json:"results"`
}

// CountryProviders lists providers per offer type for one country
type CountryProviders struct {
	Link     string          `json:"link"`
	Flatrate []WatchProvider `json:"flatrate"`
	Rent     []WatchProvider `json:"rent"`
	Buy      []WatchProvider `json:"buy"`
}

// WatchProvider is one provider entry from TMDB
type WatchProvider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}
