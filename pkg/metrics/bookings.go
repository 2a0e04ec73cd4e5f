package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	QuoteOutcomePriced   = "priced"
	QuoteOutcomeRejected = "rejected"
)

// BookingMetrics tracks booking writes, slot conflicts, quotes and
// notification failures.
type BookingMetrics struct {
	created       *prometheus.CounterVec
	conflicts     prometheus.Counter
	quotes        *prometheus.CounterVec
	notifyFailure *prometheus.CounterVec
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Bookings persisted, by service method.",
	}, []string{"service_method"})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "booking_conflicts_total",
		Help: "Booking submissions rejected because the slot was taken.",
	})
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotes_total",
		Help: "Quote computations by outcome.",
	}, []string{"outcome"})
	notifyFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Booking notifications that failed to send, by channel.",
	}, []string{"channel"})
	reg.MustRegister(created, conflicts, quotes, notifyFailure)
	return &BookingMetrics{
		created:       created,
		conflicts:     conflicts,
		quotes:        quotes,
		notifyFailure: notifyFailure,
	}
}

// IncCreated counts a persisted booking.
func (b *BookingMetrics) IncCreated(serviceMethod string) {
	if b == nil || b.created == nil {
		return
	}
	b.created.WithLabelValues(normalizeLabel(serviceMethod)).Inc()
}

// IncConflict counts a rejected double booking.
func (b *BookingMetrics) IncConflict() {
	if b == nil || b.conflicts == nil {
		return
	}
	b.conflicts.Inc()
}

// IncQuote counts a quote computation.
func (b *BookingMetrics) IncQuote(outcome string) {
	if b == nil || b.quotes == nil {
		return
	}
	b.quotes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncNotificationFailure counts a failed notification send.
func (b *BookingMetrics) IncNotificationFailure(channel string) {
	if b == nil || b.notifyFailure == nil {
		return
	}
	b.notifyFailure.WithLabelValues(normalizeLabel(channel)).Inc()
}
