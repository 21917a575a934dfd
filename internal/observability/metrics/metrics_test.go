package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveTurn()
	m.ObserveStage("greet_user")
	m.ObserveBooking()
	m.ObserveLLMFailure("classify")
	m.ObserveBackendFailure("calendar")
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveTurn()
	m.ObserveStage("collect_details")
	m.ObserveBooking()
	m.ObserveLLMFailure("extract")
	m.ObserveBackendFailure("email")
}
