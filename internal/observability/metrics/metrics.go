package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the WhatsApp message flow and
// the booking commit path.
type BotMetrics struct {
	inboundTotal       *prometheus.CounterVec
	automationLatency  *prometheus.HistogramVec
	reservationOutcome *prometheus.CounterVec
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autowhapp",
			Subsystem: "bot",
			Name:      "inbound_messages_total",
			Help:      "Total inbound WhatsApp messages",
		}, []string{"status"}),
		automationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "autowhapp",
			Subsystem: "bot",
			Name:      "automation_latency_seconds",
			Help:      "Latency of automation webhook round trips",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		reservationOutcome: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autowhapp",
			Subsystem: "reservations",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.automationLatency, m.reservationOutcome)
	return m
}

func (m *BotMetrics) ObserveInbound(status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(status).Inc()
}

func (m *BotMetrics) ObserveAutomationLatency(status string, seconds float64) {
	if m == nil {
		return
	}
	m.automationLatency.WithLabelValues(status).Observe(seconds)
}

func (m *BotMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.reservationOutcome.WithLabelValues(outcome).Inc()
}
