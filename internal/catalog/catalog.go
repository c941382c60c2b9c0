package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Required CSV columns. poster_path is optional.
var requiredColumns = []string{"title", "overview", "release_date", "popularity", "vote_average", "vote_count"}

// Load errors. All failures returned by Load wrap one of these.
var (
	ErrSourceMissing  = errors.New("catalog source not found")
	ErrMissingColumns = errors.New("catalog source is missing required columns")
	ErrEmptyCatalog   = errors.New("catalog is empty after cleaning")
)

// Movie is one row of the catalog.
type Movie struct {
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	Year        int     `json:"year"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	PosterPath  string  `json:"poster_path,omitempty"`
}

// Bounds holds the min/max numeric values across the catalog. They are used
// for input-range validation and prompt text, not for filtering.
type Bounds struct {
	MinRating     float64 `json:"min_rating"`
	MaxRating     float64 `json:"max_rating"`
	MinPopularity float64 `json:"min_popularity"`
	MaxPopularity float64 `json:"max_popularity"`
}

// Catalog is the immutable in-memory movie table. It is built once at startup
// and only read afterwards.
type Catalog struct {
	movies []Movie
	bounds Bounds
}

// New builds a Catalog from already-parsed rows. It fails on empty input.
func New(movies []Movie) (*Catalog, error) {
	if len(movies) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{movies: movies}
	c.bounds = computeBounds(movies)
	return c, nil
}

// Load reads the catalog from a CSV file. Rows without a derivable release
// year or with malformed numeric fields are dropped silently.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMissingColumns, missing)
	}

	var movies []Movie
	dropped := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A structurally malformed row is a load failure, unlike rows
			// that merely lack a usable year or numeric field.
			return nil, fmt.Errorf("failed to read catalog row: %w", err)
		}
		m, ok := parseRow(record, col)
		if !ok {
			dropped++
			continue
		}
		movies = append(movies, m)
	}

	if dropped > 0 {
		slog.Info("dropped unusable catalog rows", "dropped", dropped)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCatalog, path)
	}

	cat := &Catalog{movies: movies, bounds: computeBounds(movies)}
	slog.Info("loaded catalog", "path", path, "movies", len(movies))
	return cat, nil
}

// Len returns the number of movies in the catalog.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// All returns every movie. The returned slice is shared and must be treated
// as read-only.
func (c *Catalog) All() []Movie {
	return c.movies
}

// Filter returns the movies satisfying pred.
func (c *Catalog) Filter(pred func(Movie) bool) []Movie {
	var out []Movie
	for _, m := range c.movies {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}

// Bounds returns the catalog bounds computed at load time.
func (c *Catalog) Bounds() Bounds {
	return c.bounds
}

func parseRow(record []string, col map[string]int) (Movie, bool) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	year, ok := parseYear(field("release_date"))
	if !ok {
		return Movie{}, false
	}
	popularity, err := strconv.ParseFloat(field("popularity"), 64)
	if err != nil {
		return Movie{}, false
	}
	voteAverage, err := strconv.ParseFloat(field("vote_average"), 64)
	if err != nil {
		return Movie{}, false
	}
	voteCount, err := strconv.Atoi(field("vote_count"))
	if err != nil || voteCount < 0 {
		return Movie{}, false
	}

	return Movie{
		Title:       field("title"),
		Overview:    field("overview"),
		Year:        year,
		Popularity:  popularity,
		VoteAverage: voteAverage,
		VoteCount:   voteCount,
		PosterPath:  field("poster_path"),
	}, true
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "2006"}

func parseYear(date string) (int, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Year(), true
		}
	}
	return 0, false
}

func computeBounds(movies []Movie) Bounds {
	b := Bounds{
		MinRating:     movies[0].VoteAverage,
		MaxRating:     movies[0].VoteAverage,
		MinPopularity: movies[0].Popularity,
		MaxPopularity: movies[0].Popularity,
	}
	for _, m := range movies[1:] {
		if m.VoteAverage < b.MinRating {
			b.MinRating = m.VoteAverage
		}
		if m.VoteAverage > b.MaxRating {
			b.MaxRating = m.VoteAverage
		}
		if m.Popularity < b.MinPopularity {
			b.MinPopularity = m.Popularity
		}
		if m.Popularity > b.MaxPopularity {
			b.MaxPopularity = m.Popularity
		}
	}
	return b
}
