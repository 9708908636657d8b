package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(webhookRequestsTotal, webhookRequestDuration) }

var (
	webhookRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Webhook deliveries by HTTP status returned.",
		},
		[]string{"status"},
	)

	webhookRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_request_duration_seconds",
			Help:    "Webhook handler latency in seconds.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"status"},
	)
)

// ObserveWebhook records one webhook delivery.
func ObserveWebhook(status int, seconds float64) {
	s := strconv.Itoa(status)
	webhookRequestsTotal.WithLabelValues(s).Inc()
	webhookRequestDuration.WithLabelValues(s).Observe(seconds)
}
