package mdp

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the training counters a Trainer reports per episode.
type Metrics struct {
	// episodes counts finished episodes by outcome
	episodes *prometheus.CounterVec

	// steps tracks episode length
	steps prometheus.Histogram

	// entries is the current size of the value table
	entries prometheus.Gauge
}

// NewMetrics registers the training metrics on reg. Registering them twice
// on the same registry is an error.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		episodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qlearning_episodes_total",
			Help: "Total training episodes by outcome",
		}, []string{"outcome"}),
		steps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "qlearning_episode_steps",
			Help:    "Number of steps taken per episode",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "qlearning_qtable_entries",
			Help: "Number of recorded state/action values",
		}),
	}

	for _, c := range []prometheus.Collector{m.episodes, m.steps, m.entries} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register training metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) observe(result EpisodeResult, entries int) {
	if m == nil {
		return
	}
	m.episodes.WithLabelValues(result.Outcome.String()).Inc()
	m.steps.Observe(float64(result.Steps))
	m.entries.Set(float64(entries))
}
