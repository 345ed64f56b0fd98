package main

import (
	"fmt"
	"strconv"
	"strings"

	"cinematch/models"
	"cinematch/notice"
	"cinematch/recommend"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// Tabs of the main page
const (
	tabSimilar   = "similar"
	tabDiscover  = "discover"
	tabAI        = "ai"
	tabFavorites = "favorites"
)

// maxProvidersShown caps the providers listed on a card
const maxProvidersShown = 4

type pageData struct {
	Tab           string
	DarkMode      bool
	AIEnabled     bool
	Notices       []notice.Notice
	HasCandidates bool
	Cards         []models.DisplayCard
	Favorites     []models.DisplayCard
	Ratings       map[string]int
	View          viewParams
	ReturnTo      string
	YearOptions   []int
}

func (d pageData) isFavorite(id int) bool {
	for _, f := range d.Favorites {
		if f.ID == id {
			return true
		}
	}
	return false
}

func (d pageData) rating(id int) int {
	return d.Ratings[strconv.Itoa(id)]
}

func page(d pageData) g.Node {
	theme := "light"
	if d.DarkMode {
		theme = "dark"
	}

	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.TitleEl(g.Text("Movie Recommender")),
				html.StyleEl(g.Raw(stylesheet)),
			),
			html.Body(
				html.Class("theme-"+theme),
				header(d),
				noticeList(d.Notices),
				tabBar(d.Tab),
				tabContent(d),
				recommendations(d),
			),
		),
	)
}

func header(d pageData) g.Node {
	return html.Div(
		html.Class("main-header"),
		html.Form(
			html.Method("post"),
			html.Action("/theme/toggle"),
			returnField(d.ReturnTo),
			html.Button(html.Type("submit"), html.Class("theme-toggle"), g.Text("Toggle Theme")),
		),
		html.H1(g.Text("Movie Recommendation Engine")),
		html.P(g.Text("Discover your next favorite movie")),
	)
}

func noticeList(notices []notice.Notice) g.Node {
	if len(notices) == 0 {
		return g.Group(nil)
	}
	items := make([]g.Node, 0, len(notices))
	for _, n := range notices {
		items = append(items, html.Div(html.Class("notice notice-"+string(n.Level)), g.Text(n.Message)))
	}
	return html.Div(html.Class("notices"), g.Group(items))
}

func tabBar(active string) g.Node {
	tabs := []struct{ id, label string }{
		{tabSimilar, "Smart Search"},
		{tabDiscover, "Targeted Discovery"},
		{tabAI, "AI Recommendations"},
		{tabFavorites, "My Favorites"},
	}
	links := make([]g.Node, 0, len(tabs))
	for _, t := range tabs {
		class := "tab"
		if t.id == active {
			class += " active"
		}
		links = append(links, html.A(html.Class(class), html.Href("/?tab="+t.id), g.Text(t.label)))
	}
	return html.Div(html.Class("tabs"), g.Group(links))
}

func tabContent(d pageData) g.Node {
	switch d.Tab {
	case tabDiscover:
		return discoverForm(d.YearOptions)
	case tabAI:
		return aiForm(d.AIEnabled)
	case tabFavorites:
		return favoritesSection(d)
	default:
		return similarForm()
	}
}

func similarForm() g.Node {
	return html.Section(
		html.H2(g.Text("Find Movies Like...")),
		html.Form(
			html.Method("post"),
			html.Action("/search/similar"),
			html.Input(
				html.Type("text"),
				html.Name("title"),
				html.Placeholder("e.g., The Matrix, Inception, Titanic"),
				html.Required(),
			),
			html.Button(html.Type("submit"), g.Text("Find Similar Movies")),
		),
	)
}

func discoverForm(years []int) g.Node {
	genreOpts := make([]g.Node, 0, len(recommend.Genres))
	for _, name := range recommend.GenreNames() {
		genreOpts = append(genreOpts, html.Option(html.Value(name), g.Text(name)))
	}

	yearOpts := []g.Node{html.Option(html.Value("Any"), g.Text("Any"))}
	for _, y := range years {
		v := strconv.Itoa(y)
		yearOpts = append(yearOpts, html.Option(html.Value(v), g.Text(v)))
	}

	certOpts := make([]g.Node, 0, len(recommend.Certifications))
	for _, c := range recommend.Certifications {
		certOpts = append(certOpts, html.Option(html.Value(c), g.Text(c)))
	}

	sortOpts := make([]g.Node, 0, len(recommend.SortOptions))
	for _, s := range recommend.SortOptions {
		sortOpts = append(sortOpts, html.Option(html.Value(s.Key), g.Text(s.Label)))
	}

	return html.Section(
		html.H2(g.Text("Discover Movies by Criteria")),
		html.Form(
			html.Method("post"),
			html.Action("/search/discover"),
			field("Genres", html.Select(html.Name("genres"), html.Multiple(), g.Group(genreOpts))),
			field("Release Year", html.Select(html.Name("year"), g.Group(yearOpts))),
			field("Age Rating", html.Select(html.Name("certifications"), html.Multiple(), g.Group(certOpts))),
			field("Sort by", html.Select(html.Name("sort_by"), g.Group(sortOpts))),
			html.Button(html.Type("submit"), g.Text("Discover Movies")),
		),
	)
}

func aiForm(enabled bool) g.Node {
	return html.Section(
		html.H2(g.Text("AI-Powered Recommendations")),
		html.P(g.Text("Describe the kind of movie you're in the mood for, or just use random words!")),
		g.If(!enabled, html.Div(html.Class("notice notice-warning"),
			g.Text("Gemini API key not provided. AI recommendations are disabled."))),
		html.Form(
			html.Method("post"),
			html.Action("/search/ai"),
			html.Textarea(
				html.Name("description"),
				html.Placeholder("e.g., 'dark sci-fi thriller with robots' or 'romantic comedy in Paris'"),
			),
			html.Button(html.Type("submit"), g.Text("Get AI Recommendations")),
		),
	)
}

func field(caption string, control g.Node) g.Node {
	return html.Div(html.Class("field"), html.Strong(g.Text(caption)), control)
}

func favoritesSection(d pageData) g.Node {
	if len(d.Favorites) == 0 {
		return html.Section(
			html.H2(g.Text("My Favorite Movies")),
			html.P(html.Class("info"), g.Text("No favorites yet! Add some movies to your favorites from the search results.")),
		)
	}

	cards := make([]g.Node, 0, len(d.Favorites))
	for _, f := range d.Favorites {
		cards = append(cards, html.Div(
			html.Class("movie-card favorite"),
			html.Img(html.Src(f.PosterURL), html.Alt(f.Title), html.Width("150")),
			html.Div(
				html.Class("movie-body"),
				html.H3(g.Textf("%s (%s)", f.Title, f.Year)),
				metrics(f),
				starRating(f.ID, d.rating(f.ID), d.ReturnTo),
				html.Form(
					html.Method("post"),
					html.Action(fmt.Sprintf("/favorites/%d/remove", f.ID)),
					returnField(d.ReturnTo),
					html.Button(html.Type("submit"), g.Text("Remove from Favorites")),
				),
			),
		))
	}

	return html.Section(
		html.H2(g.Text("My Favorite Movies")),
		html.Div(
			html.Class("actions"),
			html.A(html.Class("button"), html.Href("/export/favorites.csv"), g.Text("Export Favorites to CSV")),
			html.Form(
				html.Method("post"),
				html.Action("/favorites/clear"),
				returnField(d.ReturnTo),
				html.Button(html.Type("submit"), g.Text("Clear All Favorites")),
			),
		),
		g.Group(cards),
	)
}

func recommendations(d pageData) g.Node {
	if !d.HasCandidates {
		return g.Group(nil)
	}

	var body g.Node
	if len(d.Cards) == 0 {
		body = html.P(html.Class("info"), g.Text("No movies match your filters. Try adjusting the criteria."))
	} else {
		cards := make([]g.Node, 0, len(d.Cards))
		for _, c := range d.Cards {
			cards = append(cards, movieCard(c, d))
		}
		body = html.Div(
			html.P(g.Textf("Showing %d movies:", len(d.Cards))),
			g.Group(cards),
		)
	}

	return html.Section(
		html.ID("recommendations"),
		html.H2(g.Text("Recommended Movies")),
		filterForm(d),
		body,
		html.A(
			html.Class("button"),
			html.Href(fmt.Sprintf("/export/recommendations.csv?min_rating=%s&max_results=%d",
				formatRating(d.View.MinRating), d.View.MaxResults)),
			g.Text("Export Recommendations"),
		),
	)
}

func filterForm(d pageData) g.Node {
	maxOpts := make([]g.Node, 0, len(recommend.MaxResultsOptions))
	for _, n := range recommend.MaxResultsOptions {
		v := strconv.Itoa(n)
		maxOpts = append(maxOpts, html.Option(html.Value(v), g.If(n == d.View.MaxResults, html.Selected()), g.Text(v)))
	}

	return html.Form(
		html.Class("filters"),
		html.Method("get"),
		html.Action("/"),
		html.Input(html.Type("hidden"), html.Name("tab"), html.Value(d.Tab)),
		field("Minimum TMDB Rating", html.Input(
			html.Type("number"),
			html.Name("min_rating"),
			g.Attr("min", "0"),
			g.Attr("max", "10"),
			g.Attr("step", "0.1"),
			html.Value(formatRating(d.View.MinRating)),
		)),
		field("Maximum Results", html.Select(html.Name("max_results"), g.Group(maxOpts))),
		field("Show Trailers", html.Input(
			html.Type("checkbox"),
			html.Name("show_trailers"),
			html.Value("true"),
			g.If(d.View.ShowTrailers, html.Checked()),
		)),
		html.Button(html.Type("submit"), g.Text("Apply")),
	)
}

func movieCard(c models.DisplayCard, d pageData) g.Node {
	return html.Div(
		html.Class("movie-card"),
		g.Attr("data-movie-id", strconv.Itoa(c.ID)),
		html.Img(html.Src(c.PosterURL), html.Alt(c.Title), html.Width("200")),
		html.Div(
			html.Class("movie-body"),
			html.H3(g.Textf("%s (%s)", c.Title, c.Year)),
			metrics(c),
			starRating(c.ID, d.rating(c.ID), d.ReturnTo),
			html.Strong(g.Text("Overview:")),
			html.P(html.Class("overview"), g.Text(c.Overview)),
			g.If(d.View.ShowTrailers && c.TrailerURL != "", trailer(c.TrailerURL)),
			providers(c.StreamingProviders),
			html.Div(
				html.Class("actions"),
				favoriteButton(c.ID, d.isFavorite(c.ID), d.ReturnTo),
				html.A(
					html.Class("details"),
					html.Href(fmt.Sprintf("https://www.themoviedb.org/movie/%d", c.ID)),
					html.Target("_blank"),
					g.Text("More Details"),
				),
			),
		),
	)
}

func metrics(c models.DisplayCard) g.Node {
	return html.Div(
		html.Class("metrics"),
		html.Span(html.Class("tmdb-rating"), g.Textf("TMDB Rating: %.1f/10", c.Rating)),
		html.Span(html.Class("age-rating"), g.Textf("Age Rating: %s", c.AgeRating)),
	)
}

func trailer(src string) g.Node {
	return html.Div(
		html.Class("trailer-container"),
		html.Strong(g.Text("Trailer:")),
		html.IFrame(
			html.Src(src),
			html.Width("100%"),
			html.Height("315"),
			g.Attr("frameborder", "0"),
			g.Attr("allowfullscreen"),
		),
	)
}

func providers(list []models.StreamingProvider) g.Node {
	if len(list) == 0 {
		return html.P(html.Class("providers"), html.Strong(g.Text("Streaming availability:")), g.Text(" Check local providers"))
	}
	if len(list) > maxProvidersShown {
		list = list[:maxProvidersShown]
	}
	items := make([]g.Node, 0, len(list))
	for _, p := range list {
		items = append(items, html.Li(g.Textf("%s (%s)", p.Name, p.Type)))
	}
	return html.Div(html.Class("providers"), html.Strong(g.Text("Available on:")), html.Ul(g.Group(items)))
}

func favoriteButton(id int, isFavorite bool, returnTo string) g.Node {
	if isFavorite {
		return html.Span(html.Class("already-favorite"), g.Text("Already in favorites!"))
	}
	return html.Form(
		html.Method("post"),
		html.Action(fmt.Sprintf("/favorites/%d", id)),
		returnField(returnTo),
		html.Button(html.Type("submit"), g.Text("Add to Favorites")),
	)
}

func starRating(id, current int, returnTo string) g.Node {
	buttons := make([]g.Node, 0, 5)
	for i := 1; i <= 5; i++ {
		star := "☆"
		if i <= current {
			star = "⭐"
		}
		buttons = append(buttons, html.Button(
			html.Type("submit"),
			html.Name("stars"),
			html.Value(strconv.Itoa(i)),
			html.Title(fmt.Sprintf("Rate %d stars", i)),
			g.Text(star),
		))
	}

	return html.Div(
		html.Class("user-rating"),
		html.Strong(g.Text("Your Rating:")),
		html.Form(
			html.Method("post"),
			html.Action(fmt.Sprintf("/ratings/%d", id)),
			returnField(returnTo),
			g.Group(buttons),
		),
		g.If(current > 0, html.P(g.Textf("You rated this: %s (%d/5)", strings.Repeat("⭐", current), current))),
	)
}

func returnField(returnTo string) g.Node {
	return html.Input(html.Type("hidden"), html.Name("return_to"), html.Value(returnTo))
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

const stylesheet = `
body { font-family: sans-serif; margin: 0 auto; max-width: 1100px; padding: 1rem; }
.theme-light { background: #fafafa; color: #222; }
.theme-dark { background: #141414; color: #eee; }
.theme-dark a { color: #8ab4f8; }
.main-header { text-align: center; }
.theme-toggle { float: left; }
.tabs { display: flex; gap: 1rem; margin: 1rem 0; }
.tab.active { font-weight: bold; text-decoration: underline; }
.notice { padding: .5rem; margin: .25rem 0; border-radius: 4px; }
.notice-warning { background: #fff3cd; color: #664d03; }
.notice-error { background: #f8d7da; color: #842029; }
.field { margin: .5rem 0; display: flex; flex-direction: column; gap: .25rem; }
.movie-card { display: flex; gap: 1rem; padding: 1rem 0; border-bottom: 1px solid #8884; }
.metrics { display: flex; gap: 2rem; margin: .5rem 0; }
.actions { display: flex; gap: 1rem; align-items: center; }
.user-rating form { display: inline; }
.user-rating button { background: none; border: none; font-size: 1.2rem; cursor: pointer; }
`
