package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes counters and histograms for the booking form and loading gate.
type Metrics struct {
	gatherer    prometheus.Gatherer
	bookingStep *prometheus.CounterVec
	submissions *prometheus.CounterVec
	gateReveal  prometheus.Histogram
	gateActive  prometheus.Gauge
}

// NewMetrics registers the site metrics on reg. A nil reg uses a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		bookingStep: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "acweb",
			Subsystem: "booking",
			Name:      "steps_total",
			Help:      "Booking form step transitions by step and result",
		}, []string{"step", "result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "acweb",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Booking submissions by result",
		}, []string{"result"}),
		gateReveal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "acweb",
			Subsystem: "gate",
			Name:      "reveal_seconds",
			Help:      "Time from loading gate start to reveal",
			Buckets:   []float64{0.5, 1, 2, 2.5, 3, 4, 5, 7.5, 10, 20},
		}),
		gateActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "acweb",
			Subsystem: "gate",
			Name:      "active",
			Help:      "Loading gates currently streaming",
		}),
	}
	reg.MustRegister(m.bookingStep, m.submissions, m.gateReveal, m.gateActive)
	return m
}

// ObserveStep records a step transition. Result is "advanced", "invalid" or "back".
func (m *Metrics) ObserveStep(step int, result string) {
	if m == nil {
		return
	}
	m.bookingStep.WithLabelValues(strconv.Itoa(step), result).Inc()
}

// ObserveSubmission records a submit attempt. Result is "sent", "missing", "invalid" or "duplicate".
func (m *Metrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveGateReveal(seconds float64) {
	if m == nil {
		return
	}
	m.gateReveal.Observe(seconds)
}

// GateStarted increments the active gauge and returns the matching decrement.
func (m *Metrics) GateStarted() func() {
	if m == nil {
		return func() {}
	}
	m.gateActive.Inc()
	return m.gateActive.Dec
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
