package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking dialogue flow.
type BookingMetrics struct {
	turnsTotal           prometheus.Counter
	stageTotal           *prometheus.CounterVec
	bookingsTotal        prometheus.Counter
	llmFailuresTotal     *prometheus.CounterVec
	backendFailuresTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		turnsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "agent",
			Name:      "turns_total",
			Help:      "Total conversation turns processed",
		}),
		stageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "agent",
			Name:      "stage_runs_total",
			Help:      "Total dialogue stage executions",
		}, []string{"stage"}),
		bookingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "agent",
			Name:      "appointments_total",
			Help:      "Total appointments created",
		}),
		llmFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "agent",
			Name:      "llm_failures_total",
			Help:      "Total LLM call failures by operation",
		}, []string{"operation"}),
		backendFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "agent",
			Name:      "backend_failures_total",
			Help:      "Total calendar and email backend failures",
		}, []string{"backend"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.stageTotal, m.bookingsTotal, m.llmFailuresTotal, m.backendFailuresTotal)
	return m
}

func (m *BookingMetrics) ObserveTurn() {
	if m == nil {
		return
	}
	m.turnsTotal.Inc()
}

func (m *BookingMetrics) ObserveStage(stage string) {
	if m == nil {
		return
	}
	m.stageTotal.WithLabelValues(stage).Inc()
}

func (m *BookingMetrics) ObserveBooking() {
	if m == nil {
		return
	}
	m.bookingsTotal.Inc()
}

func (m *BookingMetrics) ObserveLLMFailure(operation string) {
	if m == nil {
		return
	}
	m.llmFailuresTotal.WithLabelValues(operation).Inc()
}

func (m *BookingMetrics) ObserveBackendFailure(backend string) {
	if m == nil {
		return
	}
	m.backendFailuresTotal.WithLabelValues(backend).Inc()
}
