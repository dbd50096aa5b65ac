package rollout

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the prometheus collectors a rollout run reports to. Callers
// register Metrics.Collectors() with their own registry (or
// prometheus.DefaultRegisterer) before calling Run.
type Metrics struct {
	EpisodesTotal prometheus.Counter
	StepsTotal    prometheus.Counter
	EpisodeWins   *prometheus.CounterVec
	EpisodeLength prometheus.Histogram
}

// NewMetrics builds a fresh set of collectors under the given namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		EpisodesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollout_episodes_total",
			Help:      "Total number of finished rollout episodes.",
		}),
		StepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollout_steps_total",
			Help:      "Total number of steps applied across all rollout episodes.",
		}),
		EpisodeWins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollout_episode_wins_total",
			Help:      "Episode outcomes by winning player id (\"undecided\" for episodes without a winner).",
		}, []string{"winner"}),
		EpisodeLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rollout_episode_length_steps",
			Help:      "Distribution of episode lengths in steps.",
			Buckets:   prometheus.ExponentialBuckets(8, 2, 10),
		}),
	}
}

// Collectors returns every collector so a caller can register them in one
// call: registry.MustRegister(m.Collectors()...).
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.EpisodesTotal, m.StepsTotal, m.EpisodeWins, m.EpisodeLength}
}

// Observe wires an EpisodeSummary into the collectors; pass it as
// Config.OnEpisode (wrapped to drop the workerID argument) to report every
// finished episode as it completes.
func (m *Metrics) Observe(e EpisodeSummary) {
	m.EpisodesTotal.Inc()
	m.StepsTotal.Add(float64(e.Steps))
	m.EpisodeLength.Observe(float64(e.Steps))
	m.EpisodeWins.WithLabelValues(winnerLabel(e.Winner)).Inc()
}

func winnerLabel(winner int) string {
	if winner < 0 {
		return "undecided"
	}
	if winner == 0 {
		return "0"
	}
	return "1"
}
