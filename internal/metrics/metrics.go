// Package metrics defines the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration observes HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "societypay",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method, path and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// SubmissionsTotal counts accepted payment submissions.
	SubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "societypay",
		Name:      "submissions_total",
		Help:      "Payment submissions accepted and appended to the ledger.",
	})

	// SubmissionRejections counts submissions rejected by validation.
	SubmissionRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "societypay",
		Name:      "submission_rejections_total",
		Help:      "Payment submissions rejected before reaching the ledger.",
	}, []string{"reason"})

	// LedgerFailures counts failed ledger operations.
	LedgerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "societypay",
		Name:      "ledger_failures_total",
		Help:      "Ledger reads and appends that failed.",
	}, []string{"op"})
)
