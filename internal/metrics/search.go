package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search and refresh outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeEmpty       = "empty"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeUnchanged   = "unchanged"
)

var (
	searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "searches_total",
			Help:      "Total number of course searches",
		},
		[]string{"mode", "outcome"},
	)

	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Course search evaluation time in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"mode"},
	)

	searchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_results",
			Help:      "Number of entries returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"mode"},
	)

	searchKeywords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_keywords",
			Help:      "Number of normalized keywords per search",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	catalogEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_entries",
			Help:      "Entries in the active catalog snapshot",
		},
	)

	catalogRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_refreshes_total",
			Help:      "Catalog refresh attempts",
		},
		[]string{"status"},
	)

	catalogSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_skipped_entries_total",
			Help:      "Catalog entries skipped during refresh",
		},
		[]string{"reason"},
	)

	catalogTrimmedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "catalog_trimmed_entries_total",
			Help:      "Catalog entries kept after dropping unknown hub units",
		},
	)
)

func init() {
	prometheus.MustRegister(
		searchesTotal,
		searchDuration,
		searchResults,
		searchKeywords,
		catalogEntries,
		catalogRefreshesTotal,
		catalogSkippedTotal,
		catalogTrimmedTotal,
	)
}

// ObserveSearch records one evaluated search.
func ObserveSearch(mode string, keywords, results int, d time.Duration) {
	outcome := OutcomeOK
	if results == 0 {
		outcome = OutcomeEmpty
	}
	searchesTotal.WithLabelValues(mode, outcome).Inc()
	searchDuration.WithLabelValues(mode).Observe(d.Seconds())
	searchResults.WithLabelValues(mode).Observe(float64(results))
	searchKeywords.Observe(float64(keywords))
}

// ObserveSearchFailure records a search that could not be evaluated.
func ObserveSearchFailure(mode, outcome string) {
	searchesTotal.WithLabelValues(mode, outcome).Inc()
}

// ObserveRefresh records a catalog refresh attempt.
func ObserveRefresh(status string, entries int) {
	catalogRefreshesTotal.WithLabelValues(status).Inc()
	if status == OutcomeOK {
		catalogEntries.Set(float64(entries))
	}
}

// ObserveSkipped records catalog entries dropped for reason.
func ObserveSkipped(reason string, n int) {
	if n > 0 {
		catalogSkippedTotal.WithLabelValues(reason).Add(float64(n))
	}
}

// ObserveTrimmed records catalog entries that lost unknown hub units.
func ObserveTrimmed(n int) {
	if n > 0 {
		catalogTrimmedTotal.Add(float64(n))
	}
}
