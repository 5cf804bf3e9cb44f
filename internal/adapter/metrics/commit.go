package metrics

import "github.com/prometheus/client_golang/prometheus"

// CommitMetrics holds Prometheus metrics for commit resolution and publishing.
type CommitMetrics struct {
	Lookups        *prometheus.CounterVec
	LookupDuration *prometheus.HistogramVec
	Publishes      *prometheus.CounterVec
}

// NewCommitMetrics creates and registers commit metrics on the given registry.
func NewCommitMetrics(reg prometheus.Registerer) *CommitMetrics {
	m := &CommitMetrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commit",
			Name:      "lookups_total",
			Help:      "Total commit identifier lookups, by source and result.",
		}, []string{"source", "result"}),
		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "commit",
			Name:      "lookup_duration_seconds",
			Help:      "Duration of commit identifier lookups in seconds.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		Publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commit",
			Name:      "publishes_total",
			Help:      "Total publish attempts, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.Lookups, m.LookupDuration, m.Publishes)
	return m
}
