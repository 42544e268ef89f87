package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace for all komga-settings metrics.
const namespace = "komga_settings"

// Recorder keeps the probe collectors registered on one registry.
type Recorder struct {
	// probesTotal counts finished probes per outcome.
	probesTotal *prometheus.CounterVec
	// probeDuration tracks how long probes take per outcome.
	probeDuration *prometheus.HistogramVec
}

// NewRecorder creates the probe collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		probesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "probes_total",
				Help:      "Total number of connectivity probes by outcome",
			},
			[]string{"outcome"},
		),
		probeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "probe_duration_seconds",
				Help:      "Duration of connectivity probes in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"outcome"},
		),
	}

	if reg != nil {
		reg.MustRegister(r.probesTotal, r.probeDuration)
	}

	return r
}

// ObserveProbe records one finished probe.
func (r *Recorder) ObserveProbe(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}

	r.probesTotal.WithLabelValues(outcome).Inc()
	r.probeDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
