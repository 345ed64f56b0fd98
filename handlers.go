package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cinematch/export"
	"cinematch/models"
	"cinematch/notice"
	"cinematch/recommend"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// viewParams are the filter-stage settings of the results view
type viewParams struct {
	MinRating    float64 `validate:"min=0,max=10"`
	MaxResults   int     `validate:"oneof=10 20 50 100"`
	ShowTrailers bool
}

// rateRequest is the JSON body of a rating update
type rateRequest struct {
	Rating int `json:"rating" validate:"min=1,max=5"`
}

type recommendationsResponse struct {
	Cards   []models.DisplayCard `json:"cards"`
	Notices []notice.Notice      `json:"notices"`
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

func parseViewParams(values url.Values) (viewParams, error) {
	p := viewParams{MaxResults: recommend.DefaultMaxResults}

	if v := values.Get("min_rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("invalid min_rating: %w", err)
		}
		p.MinRating = f
	}
	if v := values.Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("invalid max_results: %w", err)
		}
		p.MaxResults = n
	}
	p.ShowTrailers = values.Get("show_trailers") == "true"

	return p, recommend.ValidateStruct(p)
}

// parseQuery reads a recommendation query from form or URL values
func parseQuery(strategy recommend.Strategy, values url.Values) (recommend.Query, error) {
	q := recommend.Query{
		Strategy:    strategy,
		Title:       values.Get("title"),
		Description: values.Get("description"),
		Discover: recommend.DiscoverQuery{
			Genres:         multiValue(values, "genres"),
			Certifications: multiValue(values, "certifications"),
			SortBy:         values.Get("sort_by"),
		},
	}

	if v := values.Get("year"); v != "" && v != "Any" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("invalid year: %w", err)
		}
		q.Discover.Year = year
	}
	if v := values.Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("invalid page: %w", err)
		}
		q.Discover.Page = p
	}

	return q, q.Validate()
}

// multiValue accepts both repeated keys and comma separated lists
func multiValue(values url.Values, key string) []string {
	var out []string
	for _, v := range values[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func safeReturn(v string) string {
	if strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//") && !strings.HasPrefix(v, "/\\") {
		return v
	}
	return "/"
}

func movieIDVar(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie ID %q", mux.Vars(r)["id"])
	}
	return id, nil
}

func yearOptions(now time.Time) []int {
	var years []int
	for y := now.Year(); y > 1950; y-- {
		years = append(years, y)
	}
	return years
}

// indexHandler renders the main page. Recommendations are re-filtered and
// re-formatted from the session's candidates on every render.
func (app *App) indexHandler(w http.ResponseWriter, r *http.Request) {
	view, err := parseViewParams(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tab := r.URL.Query().Get("tab")
	switch tab {
	case tabSimilar, tabDiscover, tabAI, tabFavorites:
	default:
		tab = tabSimilar
	}

	collector := &notice.Collector{}
	ctx := notice.WithCollector(r.Context(), collector)

	candidates := app.session.Candidates()
	var cards []models.DisplayCard
	if len(candidates) > 0 {
		cards = app.pipeline.Cards(ctx, candidates, view.MinRating, view.MaxResults)
	}

	data := pageData{
		Tab:           tab,
		DarkMode:      app.session.DarkMode(),
		AIEnabled:     app.config.AIEnabled(),
		Notices:       append(app.session.TakeNotices(), collector.All()...),
		HasCandidates: len(candidates) > 0,
		Cards:         cards,
		Favorites:     app.session.Favorites(),
		Ratings:       app.session.Ratings(),
		View:          view,
		ReturnTo:      r.URL.RequestURI(),
		YearOptions:   yearOptions(time.Now()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page(data).Render(w); err != nil {
		log.Error().Err(err).Msg("Failed to render page")
	}
}

func (app *App) searchHandler(strategy recommend.Strategy, tab string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}

		q, err := parseQuery(strategy, r.PostForm)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		collector := &notice.Collector{}
		ctx := notice.WithCollector(r.Context(), collector)

		candidates := app.pipeline.Candidates(ctx, q)
		app.session.SetCandidates(candidates)
		app.session.SetNotices(collector.All())

		http.Redirect(w, r, "/?tab="+tab+"#recommendations", http.StatusSeeOther)
	}
}

func (app *App) addFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDVar(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	collector := &notice.Collector{}
	ctx := notice.WithCollector(r.Context(), collector)

	movie, ok := app.session.Candidate(id)
	if !ok {
		movie, ok = app.pipeline.Lookup(ctx, id)
	}
	if !ok {
		http.Error(w, "Movie not found", http.StatusNotFound)
		return
	}

	added, err := app.session.AddFavorite(app.pipeline.Format(ctx, movie))
	if err != nil {
		log.Error().Err(err).Int("movie_id", id).Msg("Error adding favorite")
		http.Error(w, "Failed to save favorites", http.StatusInternalServerError)
		return
	}
	if added {
		log.Info().Int("movie_id", id).Str("title", movie.Title).Msg("Added to favorites")
	}

	app.session.SetNotices(collector.All())
	http.Redirect(w, r, safeReturn(r.FormValue("return_to")), http.StatusSeeOther)
}

func (app *App) removeFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDVar(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := app.session.RemoveFavorite(id); err != nil {
		log.Error().Err(err).Int("movie_id", id).Msg("Error removing favorite")
		http.Error(w, "Failed to save favorites", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, safeReturn(r.FormValue("return_to")), http.StatusSeeOther)
}

func (app *App) clearFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.session.ClearFavorites(); err != nil {
		log.Error().Err(err).Msg("Error clearing favorites")
		http.Error(w, "Failed to save favorites", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, safeReturn(r.FormValue("return_to")), http.StatusSeeOther)
}

func (app *App) rateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDVar(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stars, err := strconv.Atoi(r.FormValue("stars"))
	if err != nil {
		http.Error(w, "Invalid rating", http.StatusBadRequest)
		return
	}

	if !app.applyRating(w, id, stars) {
		return
	}
	http.Redirect(w, r, safeReturn(r.FormValue("return_to")), http.StatusSeeOther)
}

// applyRating stores a rating and writes an error response on failure
func (app *App) applyRating(w http.ResponseWriter, id, stars int) bool {
	if err := recommend.ValidateStruct(rateRequest{Rating: stars}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	if err := app.session.Rate(id, stars); err != nil {
		log.Error().Err(err).Int("movie_id", id).Msg("Error saving rating")
		http.Error(w, "Failed to save rating", http.StatusInternalServerError)
		return false
	}
	return true
}

func (app *App) toggleThemeHandler(w http.ResponseWriter, r *http.Request) {
	app.session.ToggleTheme()
	http.Redirect(w, r, safeReturn(r.FormValue("return_to")), http.StatusSeeOther)
}

func (app *App) exportRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	view, err := parseViewParams(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cards := app.pipeline.Cards(r.Context(), app.session.Candidates(), view.MinRating, view.MaxResults)
	writeCSV(w, "movie_recommendations.csv", cards)
}

func (app *App) exportFavoritesHandler(w http.ResponseWriter, _ *http.Request) {
	writeCSV(w, "my_favorite_movies.csv", app.session.Favorites())
}

func writeCSV(w http.ResponseWriter, filename string, cards []models.DisplayCard) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteCards(w, cards); err != nil {
		log.Error().Err(err).Str("file", filename).Msg("Error writing CSV")
	}
}

// apiRecommendationsHandler runs the whole pipeline statelessly
func (app *App) apiRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q, err := parseQuery(recommend.Strategy(values.Get("strategy")), values)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	view, err := parseViewParams(values)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q.MinRating = view.MinRating
	q.MaxResults = view.MaxResults

	collector := &notice.Collector{}
	ctx := notice.WithCollector(r.Context(), collector)

	cards := app.pipeline.Run(ctx, q)
	if cards == nil {
		cards = []models.DisplayCard{}
	}
	notices := collector.All()

	writeJSON(w, http.StatusOK, recommendationsResponse{Cards: cards, Notices: notices})
}

func (app *App) apiFavoritesHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, app.session.Favorites())
}

func (app *App) apiRatingsHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, app.session.Ratings())
}

func (app *App) apiRateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := movieIDVar(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !app.applyRating(w, id, req.Rating) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"movie_id": id,
		"rating":   req.Rating,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}
