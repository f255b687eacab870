package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venue_backend",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "venue_backend",
			Name:      "bookings_submitted_total",
			Help:      "Booking requests accepted.",
		},
	)

	statusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "venue_backend",
			Name:      "booking_status_updates_total",
			Help:      "Booking status transitions by resulting status and entry point.",
		},
		[]string{"status", "via"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsSubmitted, statusUpdates)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncSubmitted counts an accepted booking request.
func IncSubmitted() {
	bookingsSubmitted.Inc()
}

// IncStatusUpdate counts a status transition; via is "set" or "patch".
func IncStatusUpdate(status, via string) {
	statusUpdates.WithLabelValues(status, via).Inc()
}
