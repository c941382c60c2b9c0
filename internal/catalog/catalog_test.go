package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moviedb.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validCSV = `title,overview,release_date,popularity,vote_average,vote_count,poster_path
Inception,A thief steals corporate secrets through dream-sharing.,2010-07-15,29.1,8.4,31000,/inception.jpg
The Room,A banker's life unravels.,2003-06-27,4.2,3.6,1200,
Arrival,A linguist decodes an alien language.,2016-11-11,18.7,7.5,18000,/arrival.jpg
`

func TestLoad(t *testing.T) {
	t.Run("loads valid catalog", func(t *testing.T) {
		cat, err := Load(writeCSV(t, validCSV))
		require.NoError(t, err)
		assert.Equal(t, 3, cat.Len())

		movies := cat.All()
		assert.Equal(t, "Inception", movies[0].Title)
		assert.Equal(t, 2010, movies[0].Year)
		assert.Equal(t, 8.4, movies[0].VoteAverage)
		assert.Equal(t, 31000, movies[0].VoteCount)
		assert.Equal(t, "/inception.jpg", movies[0].PosterPath)
		assert.Empty(t, movies[1].PosterPath)
	})

	t.Run("computes bounds", func(t *testing.T) {
		cat, err := Load(writeCSV(t, validCSV))
		require.NoError(t, err)

		b := cat.Bounds()
		assert.Equal(t, 3.6, b.MinRating)
		assert.Equal(t, 8.4, b.MaxRating)
		assert.Equal(t, 4.2, b.MinPopularity)
		assert.Equal(t, 29.1, b.MaxPopularity)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
		assert.ErrorIs(t, err, ErrSourceMissing)
	})

	t.Run("missing required columns", func(t *testing.T) {
		csv := "title,overview,popularity\nX,Y,1.0\n"
		_, err := Load(writeCSV(t, csv))
		assert.ErrorIs(t, err, ErrMissingColumns)
	})

	t.Run("drops rows without a derivable year", func(t *testing.T) {
		csv := `title,overview,release_date,popularity,vote_average,vote_count
Good,ok,2020-01-01,1.0,5.0,10
NoDate,ok,,1.0,5.0,10
BadDate,ok,soon,1.0,5.0,10
`
		cat, err := Load(writeCSV(t, csv))
		require.NoError(t, err)
		assert.Equal(t, 1, cat.Len())
		assert.Equal(t, "Good", cat.All()[0].Title)
	})

	t.Run("drops rows with malformed numerics", func(t *testing.T) {
		csv := `title,overview,release_date,popularity,vote_average,vote_count
Good,ok,2020-01-01,1.0,5.0,10
BadVotes,ok,2020-01-01,1.0,5.0,lots
NegativeVotes,ok,2020-01-01,1.0,5.0,-3
`
		cat, err := Load(writeCSV(t, csv))
		require.NoError(t, err)
		assert.Equal(t, 1, cat.Len())
	})

	t.Run("structurally malformed row fails the load", func(t *testing.T) {
		csv := `title,overview,release_date,popularity,vote_average,vote_count
First,ok,2020-01-01,1.0,5.0,10
Bad"quote,ok,2020-01-01,1.0,5.0,10
Second,ok,2021-01-01,2.0,6.0,20
`
		_, err := Load(writeCSV(t, csv))
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to read catalog row")
	})

	t.Run("empty after cleaning", func(t *testing.T) {
		csv := `title,overview,release_date,popularity,vote_average,vote_count
NoDate,ok,,1.0,5.0,10
`
		_, err := Load(writeCSV(t, csv))
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("accepts bare year dates", func(t *testing.T) {
		csv := `title,overview,release_date,popularity,vote_average,vote_count
Old,ok,1962,1.0,5.0,10
`
		cat, err := Load(writeCSV(t, csv))
		require.NoError(t, err)
		assert.Equal(t, 1962, cat.All()[0].Year)
	})
}

func TestNew(t *testing.T) {
	t.Run("rejects empty input", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("builds bounds", func(t *testing.T) {
		cat, err := New([]Movie{
			{Title: "A", VoteAverage: 6.0, Popularity: 2.0},
			{Title: "B", VoteAverage: 8.9, Popularity: 11.5},
		})
		require.NoError(t, err)
		assert.Equal(t, Bounds{MinRating: 6.0, MaxRating: 8.9, MinPopularity: 2.0, MaxPopularity: 11.5}, cat.Bounds())
	})
}

func TestFilter(t *testing.T) {
	cat, err := New([]Movie{
		{Title: "A", Year: 2010},
		{Title: "B", Year: 2016},
		{Title: "C", Year: 2016},
	})
	require.NoError(t, err)

	got := cat.Filter(func(m Movie) bool { return m.Year == 2016 })
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Title)
	assert.Equal(t, "C", got[1].Title)

	assert.Empty(t, cat.Filter(func(m Movie) bool { return m.Year == 1899 }))
}
