package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBotMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBotMetrics(reg)
	m.ObserveInbound("handled")
	m.ObserveAutomationLatency("ok", 0.5)
	m.ObserveBooking("confirmed")
}

func TestBotMetricsNilSafe(t *testing.T) {
	var m *BotMetrics
	m.ObserveInbound("handled")
	m.ObserveAutomationLatency("ok", 0.1)
	m.ObserveBooking("conflict")
}
