package dialog

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/VS0178/move-bot-rec/internal/catalog"
	"github.com/VS0178/move-bot-rec/internal/query"
)

// State is the per-user dialog position.
type State int

const (
	Idle State = iota
	AwaitingRating
	AwaitingYear
	AwaitingPopularity
)

// Intent identifies one inbound user action.
type Intent string

const (
	IntentStart            Intent = "start"
	IntentAbout            Intent = "about"
	IntentSelectRandom     Intent = "random"
	IntentSelectRating     Intent = "rating"
	IntentSelectYear       Intent = "year"
	IntentSelectPopularity Intent = "popularity"
	IntentCancel           Intent = "cancel"
	IntentText             Intent = "text"
)

// Event is one inbound user action, already tagged with an intent by the
// transport.
type Event struct {
	Intent Intent
	Text   string
}

// Machine runs the per-user dialog. It owns the keyed session store; the
// transport is responsible for serializing events per user, the mutex only
// protects the map across users.
type Machine struct {
	cat    *catalog.Catalog
	engine *query.Engine

	mu       sync.RWMutex
	sessions map[int64]State
}

// NewMachine creates a dialog machine over the given catalog and engine.
func NewMachine(cat *catalog.Catalog, engine *query.Engine) *Machine {
	return &Machine{
		cat:      cat,
		engine:   engine,
		sessions: make(map[int64]State),
	}
}

// Handle runs one transition for the user and returns the single reply to
// render. It never returns an error: bad input becomes a corrective Response.
func (m *Machine) Handle(userID int64, ev Event) Response {
	switch ev.Intent {
	case IntentStart:
		m.setState(userID, Idle)
		return Response{Kind: KindMenu, Text: "Pick a search criterion:"}

	case IntentAbout:
		return Response{Kind: KindAbout, Text: m.aboutText()}

	case IntentSelectRandom:
		return m.resolve(query.Random(), "🎲 Random pick:")

	case IntentSelectRating:
		m.setState(userID, AwaitingRating)
		b := m.engine.Bounds()
		return Response{
			Kind:   KindPrompt,
			Text:   fmt.Sprintf("Enter a minimum rating (%.1f - %.1f):\nExample: 7.5", b.MinRating, b.MaxRating),
			Bounds: &b,
		}

	case IntentSelectYear:
		m.setState(userID, AwaitingYear)
		return Response{Kind: KindPrompt, Text: "Enter a release year, e.g. 2020:"}

	case IntentSelectPopularity:
		m.setState(userID, AwaitingPopularity)
		return Response{Kind: KindPrompt, Text: "Enter a minimum popularity level:"}

	case IntentCancel:
		m.setState(userID, Idle)
		return Response{Kind: KindCancelled, Text: "Cancelled. Send /start to search again."}

	case IntentText:
		return m.handleText(userID, ev.Text)

	default:
		slog.Warn("unknown intent", "intent", ev.Intent, "user_id", userID)
		return Response{Kind: KindMenu, Text: "Send /start to pick a search criterion."}
	}
}

func (m *Machine) handleText(userID int64, text string) Response {
	switch m.state(userID) {
	case AwaitingRating:
		r, err := query.ValidateRating(text, m.engine.Bounds())
		if err != nil {
			return Response{Kind: KindValidationFailed, Text: err.Error()}
		}
		return m.resolveAwaited(userID, query.MinRating(r),
			fmt.Sprintf("🎬 Movies rated %.1f+", r),
			fmt.Sprintf("No movies found with rating %.1f+.", r))

	case AwaitingYear:
		y, err := query.ValidateYear(text)
		if err != nil {
			return Response{Kind: KindValidationFailed, Text: err.Error()}
		}
		return m.resolveAwaited(userID, query.ByYear(y),
			fmt.Sprintf("🎬 Movies from %d:", y),
			fmt.Sprintf("No movies found for %d.", y))

	case AwaitingPopularity:
		p, err := query.ValidatePopularity(text)
		if err != nil {
			return Response{Kind: KindValidationFailed, Text: err.Error()}
		}
		return m.resolveAwaited(userID, query.MinPopularity(p),
			fmt.Sprintf("🎬 Movies with popularity %.1f+:", p),
			fmt.Sprintf("No movies found with popularity %.1f+.", p))

	default:
		return Response{Kind: KindMenu, Text: "Send /start to pick a search criterion."}
	}
}

// resolveAwaited resolves a validated criterion collected through an Awaiting
// state. An empty candidate set keeps the session open so the user can retry
// with a different value.
func (m *Machine) resolveAwaited(userID int64, c query.Criterion, header, notFound string) Response {
	candidates := m.engine.Candidates(c)
	if len(candidates) == 0 {
		return Response{Kind: KindNotFound, Text: notFound}
	}
	movie, err := m.engine.Choose(candidates)
	if err != nil {
		// Unreachable: emptiness is checked above.
		slog.Error("choose failed", "error", err, "criterion", c.Describe())
		return Response{Kind: KindNotFound, Text: notFound}
	}
	m.setState(userID, Idle)
	return Response{Kind: KindResult, Header: header, Movie: &movie}
}

// resolve handles criteria that need no further input. A random pick never
// disturbs a pending session.
func (m *Machine) resolve(c query.Criterion, header string) Response {
	candidates := m.engine.Candidates(c)
	if len(candidates) == 0 {
		return Response{Kind: KindNotFound, Text: "No movies found for " + c.Describe() + "."}
	}
	movie, err := m.engine.Choose(candidates)
	if err != nil {
		slog.Error("choose failed", "error", err, "criterion", c.Describe())
		return Response{Kind: KindNotFound, Text: "No movies found for " + c.Describe() + "."}
	}
	return Response{Kind: KindResult, Header: header, Movie: &movie}
}

func (m *Machine) aboutText() string {
	return fmt.Sprintf(
		"🎬 Movie Recommendation Bot\n\n%d movies in the catalog.\nSearch criteria:\n- Random pick\n- By rating\n- By release year\n- By popularity\n\nSend /start to begin.",
		m.cat.Len(),
	)
}

func (m *Machine) state(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

func (m *Machine) setState(userID int64, s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == Idle {
		delete(m.sessions, userID)
		return
	}
	m.sessions[userID] = s
}
