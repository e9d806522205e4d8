package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warbler_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ActivityTotal counts domain activity such as signups, follows and likes.
	ActivityTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_activity_total",
		Help: "Total number of user activity events by type",
	}, []string{"type"})

	// ActivityPublishErrors counts activity events the broker refused.
	ActivityPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warbler_activity_publish_errors_total",
		Help: "Total number of activity events that failed to publish",
	})

	// FlashStoreErrors counts flash store failures by operation.
	FlashStoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warbler_flash_store_errors_total",
		Help: "Total number of flash store errors by operation",
	}, []string{"operation"})
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, started time.Time) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(started).Seconds())
}

// RecordActivity increments the activity counter for the event type.
func RecordActivity(eventType string) {
	ActivityTotal.WithLabelValues(eventType).Inc()
}
