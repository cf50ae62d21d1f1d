package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"krishi-sahayak/backend/internal/features/advisory/domain"
	configdomain "krishi-sahayak/backend/internal/features/config/domain"
	"krishi-sahayak/backend/internal/logger"
	"krishi-sahayak/backend/internal/metrics"
)

// RouterService answers a transcribed voice query from the keyword catalog.
type RouterService interface {
	Handle(ctx context.Context, query string) (*domain.QueryResponse, error)
}

type routerService struct {
	rules      []domain.KeywordRule
	prices     PriceLookupService
	thinkDelay time.Duration
	log        *logger.Logger
}

// NewRouterService creates a RouterService over the catalog rules.
func NewRouterService(catalog *configdomain.Catalog, prices PriceLookupService, thinkDelay time.Duration, log *logger.Logger) RouterService {
	return &routerService{
		rules:      catalog.Rules,
		prices:     prices,
		thinkDelay: thinkDelay,
		log:        log,
	}
}

// Handle returns the first matching rule's answer, or the fallback answer when nothing
// matches. Only an empty query is an error.
func (s *routerService) Handle(ctx context.Context, query string) (*domain.QueryResponse, error) {
	start := time.Now()
	defer func() {
		metrics.VoiceQueryLatency.Observe(time.Since(start).Seconds())
	}()

	if query == "" {
		metrics.VoiceQueriesTotal.WithLabelValues(metrics.OutcomeInvalid, "").Inc()
		return nil, domain.ErrInvalidInput
	}

	if err := simulateLatency(ctx, s.thinkDelay); err != nil {
		return nil, fmt.Errorf("advisory interrupted: %w", err)
	}

	rule, ok := Match(s.rules, query)
	if !ok {
		metrics.VoiceQueriesTotal.WithLabelValues(metrics.OutcomeFallback, "").Inc()
		s.log.Debug("No rule matched query", logrus.Fields{"query": query})
		return domain.FallbackResponse(), nil
	}
	metrics.VoiceQueriesTotal.WithLabelValues(metrics.OutcomeMatched, rule.Trigger).Inc()

	resp := &domain.QueryResponse{
		Diagnosis: rule.Diagnosis,
		Solution:  rule.Solution,
	}
	if rule.Product != "" {
		product := rule.Product
		resp.Product = &product
		resp.PriceComparison = s.prices.QuotesFor(ctx, product)
	}

	s.log.Debug("Rule matched query", logrus.Fields{
		"trigger": rule.Trigger,
		"product": rule.Product,
		"quotes":  len(resp.PriceComparison),
	})
	return resp, nil
}

// Match scans rules in order and returns the first whose trigger is a literal,
// case-sensitive substring of query.
func Match(rules []domain.KeywordRule, query string) (domain.KeywordRule, bool) {
	for _, rule := range rules {
		if strings.Contains(query, rule.Trigger) {
			return rule, true
		}
	}
	return domain.KeywordRule{}, false
}
