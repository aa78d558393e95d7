package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusOK            = "ok"
	StatusProviderError = "provider_error"
	StatusTransport     = "transport_error"
	StatusInvalid       = "invalid_response"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	PromptBytes *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them through Handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gemini_requests_total",
				Help: "Total number of generateContent requests",
			},
			[]string{"model", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gemini_request_duration_seconds",
				Help:    "generateContent request duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"model"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gemini_requests_in_flight",
				Help: "Number of generateContent requests currently waiting for a response",
			},
		),

		PromptBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gemini_prompt_bytes",
				Help:    "Size of the composed prompt text in bytes",
				Buckets: prometheus.ExponentialBuckets(64, 4, 8),
			},
			[]string{"aux"},
		),
	}

	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) RecordRequest(model, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(model, status).Inc()
	m.RequestDuration.WithLabelValues(model).Observe(duration.Seconds())
}

func (m *Metrics) RecordPrompt(aux string, size int) {
	m.PromptBytes.WithLabelValues(aux).Observe(float64(size))
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
