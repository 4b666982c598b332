package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(lineAPICallsTotal, lineAPILatencyMs, lineAPIInflight)
}

var (
	lineAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "line_api_calls_total",
			Help: "Outbound LINE Messaging API calls per operation and outcome.",
		},
		[]string{"op", "success"},
	)

	lineAPILatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "line_api_latency_ms",
			Help:    "LINE Messaging API call latency in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"op"},
	)

	lineAPIInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "line_api_inflight",
			Help: "LINE API client handles currently acquired.",
		},
	)
)

func ObserveLineCall(op string, latencyMs int64, success bool) {
	lineAPICallsTotal.WithLabelValues(norm(op), strconv.FormatBool(success)).Inc()
	lineAPILatencyMs.WithLabelValues(norm(op)).Observe(float64(latencyMs))
}

func IncLineInflight() { lineAPIInflight.Inc() }
func DecLineInflight() { lineAPIInflight.Dec() }
