package present

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/VS0178/move-bot-rec/internal/catalog"
)

func TestBuild(t *testing.T) {
	movie := catalog.Movie{
		Title:       "Arrival",
		Overview:    "A linguist decodes an alien language.",
		Year:        2016,
		Popularity:  18.74,
		VoteAverage: 7.5,
		VoteCount:   18000,
		PosterPath:  "/arrival.jpg",
	}

	t.Run("formats the card", func(t *testing.T) {
		card := Build(movie, "🎬 Movies from 2016:", 400)
		assert.Equal(t, "🎬 Movies from 2016:", card.Header)
		assert.Equal(t, "Arrival", card.Title)
		assert.Equal(t, 2016, card.Year)
		assert.Equal(t, 7.5, card.VoteAverage)
		assert.Equal(t, 18000, card.VoteCount)
		assert.Equal(t, "18.7", card.Popularity)
		assert.Equal(t, movie.Overview, card.Overview)
		assert.Equal(t, TMDBImageBaseW500+"/arrival.jpg", card.PosterURL)
	})

	t.Run("truncates long overviews with an ellipsis", func(t *testing.T) {
		long := movie
		long.Overview = strings.Repeat("x", 450)
		card := Build(long, "", 400)
		assert.Len(t, card.Overview, 403)
		assert.True(t, strings.HasSuffix(card.Overview, "..."))
	})

	t.Run("leaves short overviews alone", func(t *testing.T) {
		card := Build(movie, "", 400)
		assert.False(t, strings.HasSuffix(card.Overview, "..."))
	})

	t.Run("counts runes, not bytes", func(t *testing.T) {
		long := movie
		long.Overview = strings.Repeat("ф", 10)
		card := Build(long, "", 8)
		assert.Equal(t, strings.Repeat("ф", 8)+"...", card.Overview)
	})

	t.Run("omits the poster when absent", func(t *testing.T) {
		bare := movie
		bare.PosterPath = ""
		card := Build(bare, "", 400)
		assert.Empty(t, card.PosterURL)
	})

	t.Run("non-positive limit falls back to the default", func(t *testing.T) {
		long := movie
		long.Overview = strings.Repeat("x", DefaultMaxOverview+50)
		card := Build(long, "", 0)
		assert.Len(t, card.Overview, DefaultMaxOverview+3)
	})
}

func TestHTML(t *testing.T) {
	movie := catalog.Movie{
		Title:       "Alien <3>",
		Overview:    "In space no one can hear you scream.",
		Year:        1979,
		Popularity:  52.0,
		VoteAverage: 8.1,
		VoteCount:   12000,
		PosterPath:  "/alien.jpg",
	}
	card := Build(movie, "🎲 Random pick:", 400)
	text := card.HTML()

	assert.Contains(t, text, "🎲 Random pick:")
	assert.Contains(t, text, "<b>Alien &lt;3&gt;</b> (1979)")
	assert.Contains(t, text, "8.1</b>/10 (votes: 12000)")
	assert.Contains(t, text, "52.0")
	assert.Contains(t, text, TMDBImageBaseW500+"/alien.jpg")

	t.Run("no poster link without a poster", func(t *testing.T) {
		bare := movie
		bare.PosterPath = ""
		assert.NotContains(t, Build(bare, "", 400).HTML(), "Poster")
	})
}
