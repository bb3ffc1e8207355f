package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
		[]string{"limiter"},
	)

	LettersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "letters_sent_total",
			Help: "Letters successfully stored",
		},
	)
	LetterReactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "letter_reactions_total",
			Help: "Reaction attempts by outcome",
		},
		[]string{"outcome"},
	)
	LetterCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "letters_cache_lookups_total",
			Help: "Delivered-letters cache lookups by result",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			RateLimited,
			LettersSent,
			LetterReactions,
			LetterCacheLookups,
		)
	})
}
