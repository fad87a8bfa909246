package metrics

import (
	"net/http"
	"time"

	"fermentation_logger/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives one observation per send attempt.
type Recorder interface {
	ObserveDelivery(outcome models.DeliveryOutcome, took time.Duration, at time.Time)
}

type PromMetrics struct {
	deliveries  *prometheus.CounterVec
	sendLatency prometheus.Histogram
	lastSuccess prometheus.Gauge
	gatherer    prometheus.Gatherer
}

// NewPromMetrics registers the delivery collectors on reg. A nil reg uses a private registry.
func NewPromMetrics(reg *prometheus.Registry) *PromMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fermlog_deliveries_total",
		Help: "Send attempts by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fermlog_send_duration_seconds",
		Help:    "Time from render start to response classification.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fermlog_last_success_timestamp_seconds",
		Help: "Unix time of the last attempt answered with 200.",
	})

	reg.MustRegister(deliveries, latency, lastSuccess)

	// pre-create series so every outcome is exported from start
	for _, o := range []models.DeliveryOutcome{
		models.OutcomeDelivered,
		models.OutcomeRedirect,
		models.OutcomeUnexpectedStatus,
		models.OutcomeTransportError,
		models.OutcomeRenderError,
	} {
		deliveries.WithLabelValues(string(o))
	}

	return &PromMetrics{
		deliveries:  deliveries,
		sendLatency: latency,
		lastSuccess: lastSuccess,
		gatherer:    reg,
	}
}

func (p *PromMetrics) ObserveDelivery(outcome models.DeliveryOutcome, took time.Duration, at time.Time) {
	p.deliveries.WithLabelValues(string(outcome)).Inc()
	p.sendLatency.Observe(took.Seconds())
	if outcome == models.OutcomeDelivered {
		p.lastSuccess.Set(float64(at.Unix()))
	}
}

// Handler exposes the registry in the Prometheus text format.
func (p *PromMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

// Nop discards observations.
type Nop struct{}

func (Nop) ObserveDelivery(models.DeliveryOutcome, time.Duration, time.Time) {}
