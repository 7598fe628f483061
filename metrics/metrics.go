package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mobilemech",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by path (slot, legacy, custom).",
		},
		[]string{"path"},
	)

	bookingTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mobilemech",
			Name:      "booking_transition_total",
			Help:      "Count of booking status transitions by target status.",
		},
		[]string{"status"},
	)

	reservationConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mobilemech",
			Name:      "reservation_conflict_total",
			Help:      "Count of reservations that lost a race or hit a disabled slot.",
		},
	)

	slotsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mobilemech",
			Name:      "slots_created_total",
			Help:      "Count of time slots created.",
		},
	)

	slotsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mobilemech",
			Name:      "slots_deleted_total",
			Help:      "Count of time slots deleted.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingTransition, reservationConflict, slotsCreated, slotsDeleted)
	})
}

func IncBookingCreated(path string) {
	bookingCreated.WithLabelValues(path).Inc()
}

func IncBookingTransition(status string) {
	bookingTransition.WithLabelValues(status).Inc()
}

func IncReservationConflict() {
	reservationConflict.Inc()
}

func AddSlotsCreated(n int) {
	slotsCreated.Add(float64(n))
}

func AddSlotsDeleted(n int64) {
	slotsDeleted.Add(float64(n))
}
