package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	candidatesScoredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inventory_candidates_scored_total",
			Help: "Total number of listing pairs scored.",
		},
	)
	matchesFoundTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_matches_found_total",
			Help: "Total number of match candidates found above threshold.",
		},
		[]string{"mode"},
	)
	mergesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_merges_total",
			Help: "Total number of merge attempts by outcome.",
		},
		[]string{"result"},
	)
	restoresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_restores_total",
			Help: "Total number of restore attempts by outcome.",
		},
		[]string{"result"},
	)
	matchRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "inventory_match_run_duration_seconds",
			Help:    "Histogram of full matching run durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)
)

func init() {
	prometheus.MustRegister(candidatesScoredTotal)
	prometheus.MustRegister(matchesFoundTotal)
	prometheus.MustRegister(mergesTotal)
	prometheus.MustRegister(restoresTotal)
	prometheus.MustRegister(matchRunDuration)
}

func RecordCandidatesScored(n int) {
	candidatesScoredTotal.Add(float64(n))
}

func RecordMatchesFound(mode string, n int) {
	matchesFoundTotal.WithLabelValues(mode).Add(float64(n))
}

func RecordMerge(result string) {
	mergesTotal.WithLabelValues(result).Inc()
}

func RecordRestore(result string) {
	restoresTotal.WithLabelValues(result).Inc()
}

func ObserveMatchRun(seconds float64) {
	matchRunDuration.Observe(seconds)
}

// MetricsHandler returns the HTTP handler exporting Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
