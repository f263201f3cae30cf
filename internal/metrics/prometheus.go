package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Validation metrics
var (
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validations_total",
			Help: "Total number of validated addresses by final status",
		},
		[]string{"status"}, // Valid, Invalid, Blacklisted, Disposable, Greylisted
	)

	BatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "validation_batches_total",
			Help: "Total number of batch runs started",
		},
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "validation_batch_size",
			Help:    "Number of addresses per batch run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 9),
		},
	)
)

// DNS metrics
var (
	DNSLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dns_mx_lookups_total",
			Help: "Total number of MX lookup attempts",
		},
		[]string{"outcome"}, // success, empty, nxdomain, timeout, error
	)

	DNSRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dns_mx_retries_total",
			Help: "Total number of MX lookup retries after a timeout",
		},
	)
)

// SMTP probe metrics
var (
	SMTPProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smtp_probes_total",
			Help: "Total number of SMTP recipient probes by resulting status",
		},
		[]string{"status"},
	)

	SMTPProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "smtp_probe_duration_seconds",
			Help:    "Duration of SMTP recipient probes",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// API metrics
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	APIAuthFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_auth_failures_total",
			Help: "Total number of API authentication failures",
		},
	)
)
