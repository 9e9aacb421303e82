package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// watcher loop.
type Metrics struct {
	CyclesTotal          *prometheus.CounterVec // labels: outcome={success,transport_error,server_error,parse_error,unknown}
	EventsFetched        prometheus.Counter
	EventsEmitted        prometheus.Counter
	DuplicatesSuppressed prometheus.Counter
	RegionMatches        prometheus.Counter
	EmitErrors           prometheus.Counter

	FetchDuration prometheus.Histogram
	BatchSize     prometheus.Histogram

	WatcherRunning prometheus.Gauge
	SeenIndexSize  prometheus.Gauge
}

// NewMetrics creates and registers all watcher metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_watch",
			Name:      "cycles_total",
			Help:      "Poll cycles by outcome.",
		}, []string{"outcome"}),
		EventsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_watch",
			Name:      "events_fetched_total",
			Help:      "Total events returned by the feed across all cycles.",
		}),
		EventsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_watch",
			Name:      "events_emitted_total",
			Help:      "Total newly seen events emitted.",
		}),
		DuplicatesSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_watch",
			Name:      "duplicates_suppressed_total",
			Help:      "Total events suppressed because their fingerprint was already seen.",
		}),
		RegionMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_watch",
			Name:      "region_matches_total",
			Help:      "Total events classified inside the watch region.",
		}),
		EmitErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_watch",
			Name:      "emit_errors_total",
			Help:      "Total emitter failures (logged, non-fatal).",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_watch",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a feed fetch including body read and decode.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_watch",
			Name:      "batch_size",
			Help:      "Number of events per successful fetch.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		WatcherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_watch",
			Name:      "watcher_running",
			Help:      "1 when the watcher loop is active, 0 when shut down.",
		}),
		SeenIndexSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_watch",
			Name:      "seen_index_size",
			Help:      "Fingerprints currently held by the dedup index.",
		}),
	}

	prometheus.MustRegister(
		m.CyclesTotal,
		m.EventsFetched,
		m.EventsEmitted,
		m.DuplicatesSuppressed,
		m.RegionMatches,
		m.EmitErrors,
		m.FetchDuration,
		m.BatchSize,
		m.WatcherRunning,
		m.SeenIndexSize,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CyclesTotal:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quake_watch", Name: "cycles_total"}, []string{"outcome"}),
		EventsFetched:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_watch", Name: "events_fetched_total"}),
		EventsEmitted:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_watch", Name: "events_emitted_total"}),
		DuplicatesSuppressed: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_watch", Name: "duplicates_suppressed_total"}),
		RegionMatches:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_watch", Name: "region_matches_total"}),
		EmitErrors:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quake_watch", Name: "emit_errors_total"}),
		FetchDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_watch", Name: "fetch_duration_seconds"}),
		BatchSize:            prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "quake_watch", Name: "batch_size"}),
		WatcherRunning:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_watch", Name: "watcher_running"}),
		SeenIndexSize:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quake_watch", Name: "seen_index_size"}),
	}
}
