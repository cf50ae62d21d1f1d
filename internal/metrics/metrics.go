package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeMatched  = "matched"
	OutcomeFallback = "fallback"
	OutcomeInvalid  = "invalid"
)

var (
	VoiceQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "krishi_voice_queries_total",
		Help: "Voice queries handled, by outcome and matched trigger",
	}, []string{"outcome", "rule"})

	VoiceQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "krishi_voice_query_latency_seconds",
		Help:    "Time spent answering a voice query",
		Buckets: prometheus.DefBuckets,
	})

	PriceLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "krishi_price_lookups_total",
		Help: "Price comparison lookups, by whether the product was known",
	}, []string{"found"})
)
