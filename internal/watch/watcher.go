// Package watch implements the polling engine: the stateful loop that
// repeatedly fetches a batch from the feed, orders it chronologically,
// separates newly seen events from already reported ones, classifies region
// membership, and emits the new events.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-watch/internal/config"
	"github.com/couchcryptid/quake-watch/internal/domain"
	"github.com/couchcryptid/quake-watch/internal/observability"
	"github.com/couchcryptid/quake-watch/internal/store"
)

// FeedSource supplies one unordered batch of events for a query window.
type FeedSource interface {
	Fetch(ctx context.Context, window domain.QueryWindow, minMagnitude float64) ([]domain.Event, error)
}

// Watcher drives the repeating fetch → order → dedup → filter → emit cycle.
// All state (seen index, match log, last batch) is written by the single
// Run goroutine; accessors take a snapshot under a mutex so the HTTP layer
// and the shutdown summary can read safely.
type Watcher struct {
	source  FeedSource
	emitter Emitter
	seen    *store.SeenIndex
	matches *store.MatchLog
	logger  *slog.Logger
	metrics *observability.Metrics

	region       domain.Region
	minMagnitude float64
	leadDays     int
	spanDays     int
	interval     time.Duration
	maxBackoff   time.Duration

	ready atomic.Bool

	mu        sync.Mutex
	lastBatch []domain.Event
	lastCycle string
}

// Status is a point-in-time snapshot of the watcher's progress, served on
// the readiness endpoint. LastCycle is "none" before the first cycle,
// "success" after a completed one, or the failure kind of the last fetch
// error ("transport_error", "server_error", "parse_error", "unknown").
type Status struct {
	Ready         bool   `json:"ready"`
	LastCycle     string `json:"last_cycle"`
	LastBatchSize int    `json:"last_batch_size"`
	SeenIndexSize int    `json:"seen_index_size"`
	RegionMatches int    `json:"region_matches"`
}

// New creates a Watcher wired to the given source, emitter, and state.
func New(source FeedSource, emitter Emitter, seen *store.SeenIndex, matches *store.MatchLog, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Watcher {
	return &Watcher{
		source:  source,
		emitter: emitter,
		seen:    seen,
		matches: matches,
		logger:  logger,
		metrics: metrics,

		region:       cfg.Region,
		minMagnitude: cfg.MinMagnitude,
		leadDays:     cfg.WindowLeadDays,
		spanDays:     cfg.WindowSpanDays,
		interval:     cfg.PollInterval,
		maxBackoff:   cfg.MaxBackoff,

		lastCycle: "none",
	}
}

// Status reports whether at least one cycle has succeeded, what the most
// recent cycle did, and how much state the loop currently holds.
func (w *Watcher) Status(_ context.Context) Status {
	w.mu.Lock()
	lastCycle := w.lastCycle
	batchSize := len(w.lastBatch)
	w.mu.Unlock()

	return Status{
		Ready:         w.ready.Load(),
		LastCycle:     lastCycle,
		LastBatchSize: batchSize,
		SeenIndexSize: w.seen.Len(),
		RegionMatches: w.matches.Len(),
	}
}

// LastBatch returns the most recent successfully fetched batch in
// chronological order. Before the first success it returns an empty slice,
// never nil: callers can always range over the result.
func (w *Watcher) LastBatch() []domain.Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]domain.Event, len(w.lastBatch))
	copy(out, w.lastBatch)
	return out
}

// RegionMatches returns the retained rendered lines of region-matched events,
// oldest first.
func (w *Watcher) RegionMatches() []string {
	return w.matches.Snapshot()
}

// Run executes the poll loop until the context is cancelled. Fetch failures
// are logged and retried with exponential backoff; they never abort the loop
// or touch state from prior cycles.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watcher started",
		"interval", w.interval,
		"min_magnitude", w.minMagnitude,
		"lead_days", w.leadDays,
		"span_days", w.spanDays,
	)
	w.metrics.WatcherRunning.Set(1)
	defer w.metrics.WatcherRunning.Set(0)

	backoff := w.interval

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if w.cycle(ctx) {
			backoff = w.interval
			if !sleepWithContext(ctx, w.interval) {
				return nil
			}
			continue
		}

		if ctx.Err() != nil {
			return nil
		}
		if !sleepWithContext(ctx, backoff) {
			return nil
		}
		backoff = nextBackoff(backoff, w.maxBackoff)
	}
}

// cycle runs one fetch → order → dedup → filter → emit pass. It returns false
// when the fetch failed; the seen index, match log, and last batch are left
// exactly as they were in that case.
func (w *Watcher) cycle(ctx context.Context) bool {
	window := domain.CurrentWindow(w.leadDays, w.spanDays)

	start := time.Now()
	batch, err := w.source.Fetch(ctx, window, w.minMagnitude)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		kind := domain.ErrorKind(err)
		w.logger.Error("fetch failed",
			"kind", kind,
			"start", window.StartDate(),
			"end", window.EndDate(),
			"error", err,
		)
		w.metrics.CyclesTotal.WithLabelValues(kind).Inc()
		w.mu.Lock()
		w.lastCycle = kind
		w.mu.Unlock()
		return false
	}

	w.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	w.metrics.BatchSize.Observe(float64(len(batch)))
	w.metrics.EventsFetched.Add(float64(len(batch)))

	ordered := domain.SortedByOccurrence(batch)
	for _, event := range ordered {
		w.process(ctx, event)
	}

	w.mu.Lock()
	w.lastBatch = ordered
	w.lastCycle = "success"
	w.mu.Unlock()

	w.metrics.SeenIndexSize.Set(float64(w.seen.Len()))
	w.metrics.CyclesTotal.WithLabelValues("success").Inc()
	w.ready.Store(true)
	return true
}

// process handles a single event of an ordered batch: emit if its
// fingerprint is new, record it regardless, and classify region membership
// independently of novelty.
func (w *Watcher) process(ctx context.Context, event domain.Event) {
	fingerprint := event.Fingerprint()
	rendered := event.String()

	if w.seen.IsNew(fingerprint) {
		if err := w.emitter.Emit(ctx, event); err != nil {
			w.logger.Warn("emit failed", "error", err, "event", rendered)
			w.metrics.EmitErrors.Inc()
		} else {
			w.metrics.EventsEmitted.Inc()
		}
	} else {
		w.metrics.DuplicatesSuppressed.Inc()
	}
	// Recorded for every event, new or not, so later cycles see it as known.
	w.seen.Record(fingerprint, rendered)

	if w.region.Contains(event) {
		w.matches.Append(rendered)
		w.metrics.RegionMatches.Inc()
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
