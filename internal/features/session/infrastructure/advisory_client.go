package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	advisory "krishi-sahayak/backend/internal/features/advisory/domain"
	"krishi-sahayak/backend/internal/logger"
)

const voiceAssistantPath = "/api/voice-assistant"

// APIError is a non-2xx answer from the advisory endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("advisory api returned %d: %s", e.StatusCode, e.Message)
}

// AdvisoryClient calls POST /api/voice-assistant behind a circuit breaker.
type AdvisoryClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *logger.Logger
}

// NewAdvisoryClient creates a client for the server at baseURL. Transport errors,
// timeouts and 5xx answers count against the breaker. 4xx answers and caller
// cancellation do not.
func NewAdvisoryClient(baseURL string, timeout time.Duration, log *logger.Logger) *AdvisoryClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "advisory-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			// A superseded run cancels its own request; the server is not at fault.
			if errors.Is(err, context.Canceled) {
				return true
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", logrus.Fields{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
	})

	return &AdvisoryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		log:        log,
	}
}

// Ask sends one query and decodes the advisory answer.
func (c *AdvisoryClient) Ask(ctx context.Context, query string) (*advisory.QueryResponse, error) {
	body, err := json.Marshal(advisory.QueryRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.log.Warn("Advisory request blocked by circuit breaker", logrus.Fields{"url": c.baseURL})
		}
		return nil, err
	}
	return result.(*advisory.QueryResponse), nil
}

func (c *AdvisoryClient) post(ctx context.Context, body []byte) (*advisory.QueryResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+voiceAssistantPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errBody advisory.ErrorResponse
		if json.Unmarshal(data, &errBody) != nil || errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	var out advisory.QueryResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response body: %w", err)
	}
	return &out, nil
}
