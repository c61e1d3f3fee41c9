// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_recorded_total",
		Help: "Payments recorded by flow.",
	}, []string{"flow"})

	VouchersMinted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vouchers_minted_total",
		Help: "Vouchers minted by type.",
	}, []string{"type"})

	RecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "admission_recompute_duration_seconds",
		Help:    "Time spent rebuilding an admission's payment summary.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	RecomputeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "admission_recompute_failures_total",
		Help: "Summary recomputes that failed after retry.",
	})
)
