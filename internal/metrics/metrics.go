package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	consultationsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "servaura",
			Name:      "consultations_created_total",
			Help:      "Consultations created, by record source (remote or local fallback).",
		},
		[]string{"source"},
	)

	remoteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "servaura",
			Name:      "remote_failures_total",
			Help:      "Failed collaborator calls, by operation.",
		},
		[]string{"op"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "servaura",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(consultationsCreated, remoteFailures, httpRequests)
	})
}

// IncCreated increments the created counter for a record source.
func IncCreated(source string) {
	consultationsCreated.WithLabelValues(source).Inc()
}

// IncRemoteFailure increments the failure counter for an operation.
func IncRemoteFailure(op string) {
	remoteFailures.WithLabelValues(op).Inc()
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
