package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes recorded in contactform_submissions_total
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeUnfilled  = "unfilled"
	OutcomeInvalid   = "invalid"
)

// metrics holds the Prometheus metrics of one server
type metrics struct {
	registry *prometheus.Registry

	submissions        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	markupValues       *prometheus.CounterVec
	activeSessions     prometheus.Gauge
	wsMessages         *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,

		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactform",
			Name:      "submissions_total",
			Help:      "Form submissions by profile and outcome",
		}, []string{"profile", "outcome"}),

		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactform",
			Name:      "validation_failures_total",
			Help:      "Field validation failures by profile and field",
		}, []string{"profile", "field"}),

		markupValues: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactform",
			Name:      "markup_values_total",
			Help:      "Submitted values containing markup by profile and field",
		}, []string{"profile", "field"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "contactform",
			Name:      "sessions_active",
			Help:      "Number of open form sessions",
		}),

		wsMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactform",
			Name:      "websocket_messages_total",
			Help:      "WebSocket messages by direction and type",
		}, []string{"direction", "type"}),
	}
}

func (m *metrics) recordSubmission(profile, outcome string) {
	m.submissions.WithLabelValues(profile, outcome).Inc()
}

func (m *metrics) recordValidationFailure(profile, field string) {
	m.validationFailures.WithLabelValues(profile, field).Inc()
}

func (m *metrics) recordMarkup(profile, field string) {
	m.markupValues.WithLabelValues(profile, field).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
