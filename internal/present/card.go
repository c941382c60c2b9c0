package present

import (
	"fmt"
	"html"

	"github.com/VS0178/move-bot-rec/internal/catalog"
)

// TMDBImageBaseW500 is the poster image base URL.
const TMDBImageBaseW500 = "https://image.tmdb.org/t/p/w500"

// DefaultMaxOverview is used when no overview limit is configured.
const DefaultMaxOverview = 400

// Card is the display payload for one chosen movie. Transports render it to
// their own format (HTML caption, JSON body).
type Card struct {
	Header      string  `json:"header"`
	Title       string  `json:"title"`
	Year        int     `json:"year"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Popularity  string  `json:"popularity"`
	Overview    string  `json:"overview"`
	PosterURL   string  `json:"poster_url,omitempty"`
}

// Build formats a movie into a Card. The overview is truncated to maxOverview
// runes with an ellipsis marker when it does not fit.
func Build(m catalog.Movie, header string, maxOverview int) Card {
	if maxOverview <= 0 {
		maxOverview = DefaultMaxOverview
	}

	overview := m.Overview
	if runes := []rune(overview); len(runes) > maxOverview {
		overview = string(runes[:maxOverview]) + "..."
	}

	card := Card{
		Header:      header,
		Title:       m.Title,
		Year:        m.Year,
		VoteAverage: m.VoteAverage,
		VoteCount:   m.VoteCount,
		Popularity:  fmt.Sprintf("%.1f", m.Popularity),
		Overview:    overview,
	}
	if m.PosterPath != "" {
		card.PosterURL = TMDBImageBaseW500 + m.PosterPath
	}
	return card
}

// HTML renders the card as a Telegram HTML caption.
func (c Card) HTML() string {
	text := fmt.Sprintf(
		"%s\n\n<b>%s</b> (%d)\n⭐ Rating: <b>%v</b>/10 (votes: %d)\n🔥 Popularity: <b>%s</b>\n\n📝 <i>%s</i>",
		c.Header, html.EscapeString(c.Title), c.Year,
		c.VoteAverage, c.VoteCount, c.Popularity,
		html.EscapeString(c.Overview),
	)
	if c.PosterURL != "" {
		text += fmt.Sprintf("\n\n<a href='%s'>🎞 Poster</a>", c.PosterURL)
	}
	return text
}
