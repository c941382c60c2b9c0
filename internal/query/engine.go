package query

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/VS0178/move-bot-rec/internal/catalog"
)

// ErrNoCandidates is returned by Choose when given an empty candidate set.
// Callers are expected to check emptiness before choosing.
var ErrNoCandidates = errors.New("no candidates to choose from")

// ValidationError carries the corrective message shown to the user when an
// input cannot be turned into a criterion value.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CriterionKind discriminates the filter variants.
type CriterionKind int

const (
	KindRandom CriterionKind = iota
	KindMinRating
	KindYear
	KindMinPopularity
)

// Criterion is one fully specified filter request.
type Criterion struct {
	Kind       CriterionKind
	Rating     float64
	Year       int
	Popularity float64
}

// Random matches the whole catalog.
func Random() Criterion {
	return Criterion{Kind: KindRandom}
}

// MinRating matches movies rated r or higher.
func MinRating(r float64) Criterion {
	return Criterion{Kind: KindMinRating, Rating: r}
}

// ByYear matches movies released in year y.
func ByYear(y int) Criterion {
	return Criterion{Kind: KindYear, Year: y}
}

// MinPopularity matches movies with popularity p or higher.
func MinPopularity(p float64) Criterion {
	return Criterion{Kind: KindMinPopularity, Popularity: p}
}

// Matches reports whether m satisfies the criterion.
func (c Criterion) Matches(m catalog.Movie) bool {
	switch c.Kind {
	case KindMinRating:
		return m.VoteAverage >= c.Rating
	case KindYear:
		return m.Year == c.Year
	case KindMinPopularity:
		return m.Popularity >= c.Popularity
	default:
		return true
	}
}

// Describe returns a short human description of the criterion, used in
// "not found" messages.
func (c Criterion) Describe() string {
	switch c.Kind {
	case KindMinRating:
		return fmt.Sprintf("rating %.1f+", c.Rating)
	case KindYear:
		return fmt.Sprintf("year %d", c.Year)
	case KindMinPopularity:
		return fmt.Sprintf("popularity %.1f+", c.Popularity)
	default:
		return "random pick"
	}
}

// Engine resolves criteria against the catalog. All operations are pure
// in-memory computations; the random source is injectable for tests.
type Engine struct {
	cat *catalog.Catalog
	rng *rand.Rand
}

// NewEngine creates an Engine. A nil rng falls back to a time-seeded source.
func NewEngine(cat *catalog.Catalog, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{cat: cat, rng: rng}
}

// Candidates returns every catalog movie matching the criterion. An empty
// result is a valid outcome, not an error.
func (e *Engine) Candidates(c Criterion) []catalog.Movie {
	if c.Kind == KindRandom {
		return e.cat.All()
	}
	return e.cat.Filter(c.Matches)
}

// Choose picks one movie uniformly at random from candidates.
func (e *Engine) Choose(candidates []catalog.Movie) (catalog.Movie, error) {
	if len(candidates) == 0 {
		return catalog.Movie{}, ErrNoCandidates
	}
	return candidates[e.rng.Intn(len(candidates))], nil
}

// Bounds exposes the catalog bounds for prompt text and rating validation.
func (e *Engine) Bounds() catalog.Bounds {
	return e.cat.Bounds()
}

// ValidateRating parses text as a rating and checks it against the catalog
// bounds, both ends inclusive.
func ValidateRating(text string, b catalog.Bounds) (float64, error) {
	r, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &ValidationError{Message: "Please enter a valid number, e.g. 7.5"}
	}
	if r < b.MinRating || r > b.MaxRating {
		return 0, &ValidationError{
			Message: fmt.Sprintf("Please enter a number between %.1f and %.1f", b.MinRating, b.MaxRating),
		}
	}
	return r, nil
}

// ValidateYear parses text as a release year. There is no range check: a year
// with no matching movies simply yields an empty candidate set downstream.
func ValidateYear(text string) (int, error) {
	y, err := strconv.Atoi(text)
	if err != nil {
		return 0, &ValidationError{Message: "Please enter a valid year, e.g. 2020"}
	}
	return y, nil
}

// ValidatePopularity parses text as a minimum popularity. No bound is
// enforced.
func ValidatePopularity(text string) (float64, error) {
	p, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &ValidationError{Message: "Please enter a valid number for popularity"}
	}
	return p, nil
}
