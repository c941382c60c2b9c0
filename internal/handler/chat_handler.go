package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/VS0178/move-bot-rec/internal/catalog"
	"github.com/VS0178/move-bot-rec/internal/dialog"
	"github.com/VS0178/move-bot-rec/internal/present"
)

// ChatHandler exposes the dialog machine over HTTP.
type ChatHandler struct {
	machine     *dialog.Machine
	cat         *catalog.Catalog
	maxOverview int
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(machine *dialog.Machine, cat *catalog.Catalog, maxOverview int) *ChatHandler {
	return &ChatHandler{machine: machine, cat: cat, maxOverview: maxOverview}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatRequest is one inbound chat event.
type ChatRequest struct {
	UserID int64  `json:"user_id"`
	Intent string `json:"intent"`
	Text   string `json:"text"`
}

// ChatResponse mirrors dialog.Response with the movie rendered as a card.
type ChatResponse struct {
	Kind   string          `json:"kind"`
	Text   string          `json:"text,omitempty"`
	Bounds *catalog.Bounds `json:"bounds,omitempty"`
	Movie  *present.Card   `json:"movie,omitempty"`
}

var knownIntents = map[string]dialog.Intent{
	"start":      dialog.IntentStart,
	"about":      dialog.IntentAbout,
	"random":     dialog.IntentSelectRandom,
	"rating":     dialog.IntentSelectRating,
	"year":       dialog.IntentSelectYear,
	"popularity": dialog.IntentSelectPopularity,
	"cancel":     dialog.IntentCancel,
	"text":       dialog.IntentText,
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *ChatHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-bot",
	})
}

// Catalog returns catalog size and bounds.
// @Summary Catalog info
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /catalog [get]
func (h *ChatHandler) Catalog(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"movies": h.cat.Len(),
		"bounds": h.cat.Bounds(),
	})
}

// Chat handles one conversational event.
// @Summary Send a chat event
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Chat event"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) Chat(c fiber.Ctx) error {
	var req ChatRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}
	if req.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "user_id is required",
		})
	}
	intent, ok := knownIntents[req.Intent]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "unknown intent: " + req.Intent,
		})
	}

	resp := h.machine.Handle(req.UserID, dialog.Event{Intent: intent, Text: req.Text})
	slog.Debug("chat event handled", "user_id", req.UserID, "intent", intent, "kind", resp.Kind)

	out := ChatResponse{
		Kind:   string(resp.Kind),
		Text:   resp.Text,
		Bounds: resp.Bounds,
	}
	if resp.Movie != nil {
		card := present.Build(*resp.Movie, resp.Header, h.maxOverview)
		out.Movie = &card
	}
	return c.JSON(out)
}
