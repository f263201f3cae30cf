package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsRegistered(t *testing.T) {
	// Verify all metrics are registered with the default registry.
	// promauto registers metrics automatically, so this test verifies
	// the package initializes without panics or duplicate registration.

	tests := []struct {
		name   string
		metric prometheus.Collector
	}{
		{"ValidationsTotal", ValidationsTotal},
		{"BatchesTotal", BatchesTotal},
		{"BatchSize", BatchSize},
		{"DNSLookupsTotal", DNSLookupsTotal},
		{"DNSRetriesTotal", DNSRetriesTotal},
		{"SMTPProbesTotal", SMTPProbesTotal},
		{"SMTPProbeDuration", SMTPProbeDuration},
		{"APIRequestsTotal", APIRequestsTotal},
		{"APIRequestDuration", APIRequestDuration},
		{"APIAuthFailuresTotal", APIAuthFailuresTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s is nil", tt.name)
			}
		})
	}
}

func TestValidationsCounter(t *testing.T) {
	ValidationsTotal.WithLabelValues("Valid").Inc()
	ValidationsTotal.WithLabelValues("Greylisted").Inc()
	// No panic means labels are valid
}

func TestDNSCounters(t *testing.T) {
	DNSLookupsTotal.WithLabelValues("success").Inc()
	DNSLookupsTotal.WithLabelValues("timeout").Inc()
	DNSRetriesTotal.Inc()
}

func TestSMTPProbeMetrics(t *testing.T) {
	SMTPProbesTotal.WithLabelValues("Invalid").Inc()
	SMTPProbeDuration.Observe(0.25)
}

func TestAPIRequestsCounter(t *testing.T) {
	APIRequestsTotal.WithLabelValues("GET", "/api/v1/validations/{id}", "200").Inc()
	APIRequestsTotal.WithLabelValues("POST", "/api/v1/validations", "202").Inc()
}

func TestAPIRequestDuration(t *testing.T) {
	APIRequestDuration.WithLabelValues("GET", "/api/v1/validations/{id}").Observe(0.05)
}
