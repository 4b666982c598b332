// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		webhookRequestsTotal,
		webhookEventsTotal,
		pushRequestsTotal,
		httpRequestDurationMs,
	)
}

var (
	webhookRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Webhook deliveries by result (ok/bad_signature/malformed/failed).",
		},
		[]string{"result"},
	)

	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Dispatched webhook events per event type.",
		},
		[]string{"type"},
	)

	pushRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_requests_total",
			Help: "Push relay requests by status (success/invalid/error).",
		},
		[]string{"status"},
	)

	httpRequestDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request latency distribution in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"route", "status"},
	)
)

// -------- Webhook helpers --------

func IncWebhookRequest(result string) {
	webhookRequestsTotal.WithLabelValues(norm(result)).Inc()
}

func IncWebhookEvent(eventType string) {
	if eventType == "" {
		eventType = "unknown"
	}
	webhookEventsTotal.WithLabelValues(norm(eventType)).Inc()
}

// -------- Push helpers --------

func IncPush(status string) {
	pushRequestsTotal.WithLabelValues(norm(status)).Inc()
}

// -------- HTTP helpers --------

func ObserveHTTPRequest(route string, status int, latencyMs float64) {
	httpRequestDurationMs.WithLabelValues(route, strconv.Itoa(status)).Observe(latencyMs)
}
