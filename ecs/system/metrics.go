package system

import "github.com/prometheus/client_golang/prometheus"

const (
	directionToScene      = "to_scene"
	directionToSimulation = "to_simulation"
)

// Metrics collects physics sync counters. A nil *Metrics records nothing.
type Metrics struct {
	bodiesSynced *prometheus.CounterVec
	stepDuration prometheus.Histogram
	bodies       prometheus.Gauge
}

// NewMetrics creates the physics collectors and registers them on reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		bodiesSynced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posebridge_bodies_synced_total",
				Help: "Body poses converted between simulation and scene.",
			},
			[]string{"direction"},
		),
		stepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "posebridge_step_duration_seconds",
				Help:    "Wall time of one physics sync pass.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
		),
		bodies: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "posebridge_bodies",
				Help: "Bodies currently present in the simulation.",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.bodiesSynced, m.stepDuration, m.bodies)
	}
	return m
}

func (m *Metrics) synced(direction string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.bodiesSynced.WithLabelValues(direction).Add(float64(n))
}

func (m *Metrics) observeStep(seconds float64, bodies int) {
	if m == nil {
		return
	}
	m.stepDuration.Observe(seconds)
	m.bodies.Set(float64(bodies))
}
