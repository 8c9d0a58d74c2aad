// Package metrics exposes Prometheus collectors for probes, RPC calls, and HTTP traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProbesTotal counts model availability probes by outcome ("ok" or "failed").
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "selflearning",
			Subsystem: "aiconfig",
			Name:      "probes_total",
			Help:      "Total model availability probes",
		},
		[]string{"outcome"},
	)

	// CredentialAvailable is 1 when the last probe of an endpoint succeeded, else 0.
	CredentialAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "selflearning",
			Subsystem: "aiconfig",
			Name:      "credential_available",
			Help:      "Whether the AI server endpoint answered the last probe",
		},
		[]string{"endpoint"},
	)

	// ProceduresTotal counts RPC procedure calls by procedure and result.
	ProceduresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "selflearning",
			Subsystem: "aiconfig",
			Name:      "procedures_total",
			Help:      "Total RPC procedure calls",
		},
		[]string{"procedure", "result"},
	)

	// RequestDuration observes HTTP request latency by route pattern and status.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "selflearning",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveProbe records the outcome of one probe.
func ObserveProbe(ok bool) {
	if ok {
		ProbesTotal.WithLabelValues("ok").Inc()
		return
	}
	ProbesTotal.WithLabelValues("failed").Inc()
}

// SetAvailability publishes the availability of endpoint.
func SetAvailability(endpoint string, available bool) {
	v := 0.0
	if available {
		v = 1
	}
	CredentialAvailable.WithLabelValues(endpoint).Set(v)
}

// ForgetEndpoint removes the availability series of a deleted credential.
func ForgetEndpoint(endpoint string) {
	CredentialAvailable.DeleteLabelValues(endpoint)
}
