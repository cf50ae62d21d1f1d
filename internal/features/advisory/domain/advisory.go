package domain

import "errors"

// ErrInvalidInput is returned when a voice query is missing or empty.
var ErrInvalidInput = errors.New("query is required")

const (
	FallbackDiagnosis = "आपकी समस्या के लिए स्थानीय कृषि विशेषज्ञ से सलाह लें"
	FallbackSolution  = "अधिक जानकारी के लिए नजदीकी कृषि केंद्र से संपर्क करें।"
)

// KeywordRule selects a canned answer when Trigger appears in a query.
type KeywordRule struct {
	Trigger   string `json:"trigger"`
	Diagnosis string `json:"diagnosis"`
	Solution  string `json:"solution"`
	Product   string `json:"product,omitempty"` // Empty when no price comparison is needed
}

// PriceQuote is one marketplace's offer for a product.
type PriceQuote struct {
	Platform string  `json:"platform"`
	Price    int     `json:"price"`
	Rating   float64 `json:"rating"`
	Delivery string  `json:"delivery"`
}

// QueryRequest is the body of POST /api/voice-assistant.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse is the answer to a voice query. Product and PriceComparison
// serialize as null when the matched rule names no product.
type QueryResponse struct {
	Diagnosis       string       `json:"diagnosis"`
	Solution        string       `json:"solution"`
	PriceComparison []PriceQuote `json:"priceComparison"`
	Product         *string      `json:"product"`
}

// ErrorResponse is the body of every non-200 answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FallbackResponse is returned when no rule matches.
func FallbackResponse() *QueryResponse {
	return &QueryResponse{
		Diagnosis: FallbackDiagnosis,
		Solution:  FallbackSolution,
	}
}
