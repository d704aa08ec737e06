// Package metrics exposes Prometheus collectors for search activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
)

var (
	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_searches_total",
		Help: "Searches resolved, by outcome.",
	}, []string{"outcome"})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "folio_search_duration_seconds",
		Help:    "Duration of book search requests in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	StaleResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_stale_responses_total",
		Help: "Search responses dropped because a newer search superseded them.",
	})

	DebouncedEditsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_debounced_edits_total",
		Help: "Query edits coalesced by the debounce window.",
	})
)
