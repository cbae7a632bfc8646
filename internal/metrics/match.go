package metrics

import "github.com/prometheus/client_golang/prometheus"

// Match pipeline Prometheus metrics.
var (
	MatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "match_total",
			Help:      "Match results by status and confidence level",
		},
		[]string{"status", "level"},
	)

	MatchCandidates = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "match_candidates",
			Help:      "Number of distinct pets per match result",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10, 20, 50},
		},
	)

	IndexSearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "index_search_duration_seconds",
			Help:      "Nearest-neighbor index search duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
	)
)

// MatchRecorder feeds match outcomes into the package collectors.
type MatchRecorder struct{}

// ObserveMatch implements usecase/match.Recorder.
func (MatchRecorder) ObserveMatch(status, level string, candidates int) {
	if level == "" {
		level = "none"
	}
	MatchTotal.WithLabelValues(status, level).Inc()
	MatchCandidates.Observe(float64(candidates))
}
