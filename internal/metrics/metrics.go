// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mockgw_request_duration_seconds",
			Help:    "Total time taken for requests in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"model", "endpoint"},
	)

	PromptTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mockgw_prompt_tokens_total",
			Help: "Total number of prompt tokens billed",
		},
		[]string{"model", "endpoint"},
	)

	CompletionTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mockgw_completion_tokens_total",
			Help: "Total number of completion tokens billed",
		},
		[]string{"model", "endpoint"},
	)

	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mockgw_request_count_total",
			Help: "Total number of requests processed",
		},
		[]string{"model", "endpoint", "status"},
	)

	RateLimitedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mockgw_rate_limited_total",
			Help: "Requests rejected by per-key limits",
		},
		[]string{"key_id", "limit"},
	)

	AuthFailureCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mockgw_auth_failure_total",
			Help: "Requests rejected by virtual key auth",
		},
		[]string{"reason"},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mockgw_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)
)
