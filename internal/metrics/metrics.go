package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomgrid",
			Name:      "booking_created_total",
			Help:      "Count of booking creations by outcome.",
		},
		[]string{"status"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roomgrid",
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled through the grid.",
		},
	)

	backendErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomgrid",
			Name:      "backend_errors_total",
			Help:      "Count of failed backend API calls by endpoint.",
		},
		[]string{"endpoint"},
	)

	weeksServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roomgrid",
			Name:      "weeks_served_total",
			Help:      "Count of week grids reconciled and served.",
		},
	)

	malformedBookings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roomgrid",
			Name:      "malformed_bookings_total",
			Help:      "Count of bookings dropped at ingestion because end <= start.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingCancelled, backendErrors, weeksServed, malformedBookings)
	})
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncBackendError(endpoint string) {
	backendErrors.WithLabelValues(endpoint).Inc()
}

func IncWeeksServed() {
	weeksServed.Inc()
}

func IncMalformedBooking() {
	malformedBookings.Inc()
}
