package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peregovorka",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "peregovorka",
			Name:      "bookings_created_total",
			Help:      "Bookings created through the API.",
		},
	)

	bookingsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "peregovorka",
			Name:      "bookings_deleted_total",
			Help:      "Bookings deleted through the API.",
		},
	)

	logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "peregovorka",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingsDeleted, logins)
	})
}

// IncHTTP increments the counter for an endpoint/status label pair.
func IncHTTP(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

func IncBookingCreated() { bookingsCreated.Inc() }

func IncBookingDeleted() { bookingsDeleted.Inc() }

// IncLogin counts a login attempt; outcome is "ok" or "failed".
func IncLogin(outcome string) {
	logins.WithLabelValues(outcome).Inc()
}
