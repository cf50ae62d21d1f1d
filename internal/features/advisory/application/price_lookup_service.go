package application

import (
	"context"
	"strconv"
	"time"

	"krishi-sahayak/backend/internal/features/advisory/domain"
	"krishi-sahayak/backend/internal/metrics"
)

// PriceLookupService returns marketplace quotes for a product.
type PriceLookupService interface {
	// QuotesFor never fails; an unknown product yields an empty slice.
	// Quotes come back in table order, unsorted.
	QuotesFor(ctx context.Context, product string) []domain.PriceQuote
}

type priceLookupService struct {
	prices map[string][]domain.PriceQuote
	delay  time.Duration
}

// NewPriceLookupService creates a PriceLookupService over a static price table.
func NewPriceLookupService(prices map[string][]domain.PriceQuote, delay time.Duration) PriceLookupService {
	return &priceLookupService{prices: prices, delay: delay}
}

func (s *priceLookupService) QuotesFor(ctx context.Context, product string) []domain.PriceQuote {
	// A cancelled wait still answers; the lookup itself cannot fail.
	_ = simulateLatency(ctx, s.delay)

	quotes, ok := s.prices[product]
	metrics.PriceLookupsTotal.WithLabelValues(strconv.FormatBool(ok)).Inc()

	out := make([]domain.PriceQuote, len(quotes))
	copy(out, quotes)
	return out
}

func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
