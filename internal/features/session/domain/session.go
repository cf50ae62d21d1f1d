package domain

import (
	"errors"
	"sort"

	advisory "krishi-sahayak/backend/internal/features/advisory/domain"
)

// State is the status of a voice session.
type State string

const (
	StateIdle      State = "IDLE" // Constructed, never started
	StateListening State = "LISTENING"
	StateThinking  State = "THINKING"
	StateSpeaking  State = "SPEAKING"
	StateError     State = "ERROR"
	StateClosed    State = "CLOSED"
)

var (
	ErrCaptureUnavailable = errors.New("speech capture is not available")
	ErrCaptureFailed      = errors.New("speech capture failed")
	ErrNetworkFailure     = errors.New("advisory request failed")
	ErrSessionClosed      = errors.New("session is closed")
)

// DisplayQuote is a price quote as shown to the farmer.
type DisplayQuote struct {
	advisory.PriceQuote
	Cheapest bool `json:"cheapest"`
}

// Result is an advisory answer prepared for display and speech.
type Result struct {
	Diagnosis string         `json:"diagnosis"`
	Solution  string         `json:"solution"`
	Product   string         `json:"product,omitempty"`
	Quotes    []DisplayQuote `json:"quotes,omitempty"` // Ascending by price; nil without a comparison
}

// NewResult sorts the price comparison ascending by price and flags the first entry
// as cheapest. Equal prices keep their server order.
func NewResult(resp *advisory.QueryResponse) *Result {
	r := &Result{
		Diagnosis: resp.Diagnosis,
		Solution:  resp.Solution,
	}
	if resp.Product != nil {
		r.Product = *resp.Product
	}
	if resp.PriceComparison == nil {
		return r
	}

	r.Quotes = make([]DisplayQuote, len(resp.PriceComparison))
	for i, q := range resp.PriceComparison {
		r.Quotes[i] = DisplayQuote{PriceQuote: q}
	}
	sort.SliceStable(r.Quotes, func(i, j int) bool {
		return r.Quotes[i].Price < r.Quotes[j].Price
	})
	if len(r.Quotes) > 0 {
		r.Quotes[0].Cheapest = true
	}
	return r
}

// SpokenText is the text handed to speech playback.
func (r *Result) SpokenText() string {
	return r.Diagnosis + ". " + r.Solution
}

// Snapshot is a point-in-time view of a session. Token identifies the run that
// produced it; a retry always carries a new token.
type Snapshot struct {
	Token      string
	State      State
	Transcript string
	Result     *Result
	Err        error
}
