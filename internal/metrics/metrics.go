// Package metrics holds the Prometheus collectors for HTTP traffic, order status
// changes and Telegram deliveries.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketplace"

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	statusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_transitions_total",
			Help:      "Order status change attempts by outcome.",
		},
		[]string{"from", "to", "outcome"},
	)

	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "messages_total",
			Help:      "Telegram deliveries by destination type and result.",
		},
		[]string{"destination_type", "result"},
	)

	deliveryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "send_duration_seconds",
			Help:      "Duration of a single Telegram send.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)

	queueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "queue_items",
			Help:      "Delivery queue items by status, sampled by the maintenance job.",
		},
		[]string{"status"},
	)
)

// Delivery results.
const (
	ResultSent    = "sent"
	ResultRetry   = "retry"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		statusTransitions,
		deliveries,
		deliveryDuration,
		queueDepth,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request in flight and returns the func that records it.
func RequestStarted() func(method, route string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, route string, status int) {
		httpInFlight.Dec()
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordTransition counts an order status change attempt.
func RecordTransition(from, to, outcome string) {
	statusTransitions.WithLabelValues(from, to, outcome).Inc()
}

// RecordDelivery counts one delivery attempt.
func RecordDelivery(destinationType, result string) {
	deliveries.WithLabelValues(destinationType, result).Inc()
}

// ObserveSend records the duration of one Telegram call.
func ObserveSend(d time.Duration) {
	deliveryDuration.Observe(d.Seconds())
}

// SetQueueDepth publishes the queue size for status.
func SetQueueDepth(status string, n int64) {
	queueDepth.WithLabelValues(status).Set(float64(n))
}
