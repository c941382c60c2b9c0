package dialog

import "github.com/VS0178/move-bot-rec/internal/catalog"

// ResponseKind discriminates the transport-neutral reply payloads.
type ResponseKind string

const (
	KindMenu             ResponseKind = "menu"
	KindAbout            ResponseKind = "about"
	KindPrompt           ResponseKind = "prompt"
	KindValidationFailed ResponseKind = "validation_failed"
	KindNotFound         ResponseKind = "not_found"
	KindResult           ResponseKind = "result"
	KindCancelled        ResponseKind = "cancelled"
)

// Response is the single reply produced by one transition. Transports decide
// how to render it (edit vs. send, HTML vs. JSON); the machine never talks to
// a transport directly.
type Response struct {
	Kind   ResponseKind    `json:"kind"`
	Text   string          `json:"text"`
	Bounds *catalog.Bounds `json:"bounds,omitempty"`
	Header string          `json:"header,omitempty"`
	Movie  *catalog.Movie  `json:"movie,omitempty"`
}
