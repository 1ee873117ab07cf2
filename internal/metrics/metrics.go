package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/insightdelivered/ride-history-converter/internal/models"
)

const namespace = "ride_history"

// Metrics counts conversions served by the converter.
type Metrics struct {
	conversions *prometheus.CounterVec
	rides       prometheus.Counter
	canceled    prometheus.Counter
	ambiguities *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversions by outcome.",
		}, []string{"outcome"}),
		rides: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rides_total",
			Help:      "Rides extracted from converted exports.",
		}),
		canceled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "canceled_rides_total",
			Help:      "Extracted rides marked as canceled.",
		}),
		ambiguities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ambiguous_markers_total",
			Help:      "Markers that matched several fields of one record, by slot.",
		}, []string{"slot"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Time spent parsing one export.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	reg.MustRegister(m.conversions, m.rides, m.canceled, m.ambiguities, m.duration)
	return m
}

// ObserveConversion records a successful conversion.
func (m *Metrics) ObserveConversion(conv *models.Conversion, elapsed time.Duration) {
	m.conversions.WithLabelValues("ok").Inc()
	m.rides.Add(float64(len(conv.Rides)))
	m.canceled.Add(float64(conv.Canceled()))
	for _, a := range conv.Ambiguities {
		m.ambiguities.WithLabelValues(a.Slot).Inc()
	}
	m.duration.Observe(elapsed.Seconds())
}

// ObserveFailure records a conversion that failed with the given outcome,
// e.g. "malformed_date".
func (m *Metrics) ObserveFailure(outcome string) {
	m.conversions.WithLabelValues(outcome).Inc()
}
