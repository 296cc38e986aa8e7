// Package ingest runs the collection cycle: fetch every source, flatten the
// payloads into canonical matches, update the store, and snapshot the result.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akulov/oddsgrid/internal/pkg/flatten"
	"github.com/akulov/oddsgrid/internal/pkg/identity"
	"github.com/akulov/oddsgrid/internal/pkg/models"
	"github.com/akulov/oddsgrid/internal/pkg/publish"
	"github.com/akulov/oddsgrid/internal/pkg/retention"
	"github.com/akulov/oddsgrid/internal/pkg/snapshot"
	"github.com/akulov/oddsgrid/internal/pkg/sources"
	"github.com/akulov/oddsgrid/internal/pkg/store"
	"github.com/akulov/oddsgrid/internal/pkg/taxonomy"
	"github.com/akulov/oddsgrid/internal/pkg/teams"
)

// Options configures a Loop. Zero values fall back to safe defaults.
type Options struct {
	Interval     time.Duration
	Workers      int
	FetchTimeout time.Duration
	// PerMatchSnapshot also writes a snapshot after every upsert. Expensive;
	// meant for debugging, not production intervals.
	PerMatchSnapshot bool
	Retention        retention.Policy
}

// Loop drives repeated collection cycles until its context is canceled.
// On shutdown the in-flight cycle finishes and a final snapshot is written.
type Loop struct {
	runID     string
	opts      Options
	sources   []sources.Source
	norm      *teams.Normalizer
	flattener *flatten.Flattener
	store     *store.MatchStore
	writers   []snapshot.Storage
	publisher publish.Publisher
	log       *slog.Logger
}

func NewLoop(runID string, opts Options, srcs []sources.Source, norm *teams.Normalizer,
	fl *flatten.Flattener, st *store.MatchStore, writers []snapshot.Storage,
	pub publish.Publisher) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	return &Loop{
		runID:     runID,
		opts:      opts,
		sources:   srcs,
		norm:      norm,
		flattener: fl,
		store:     st,
		writers:   writers,
		publisher: pub,
		log:       slog.Default().With("run_id", runID),
	}
}

// Run executes cycles until ctx is canceled, then writes a final snapshot.
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info("Ingestion loop started",
		"sources", len(l.sources), "interval", l.opts.Interval, "workers", l.opts.Workers)

	for {
		started := time.Now()
		stats := l.RunCycle(ctx)

		elapsed := time.Since(started)
		l.log.Info("Cycle finished",
			"cycle", l.store.Cycle(), "matches", l.store.Len(), "elapsed", elapsed,
			"sources_ok", stats.SourcesOK, "sources_failed", stats.SourcesFailed,
			"payloads", stats.Payloads, "upserts", stats.Upserts,
			"skipped", stats.Skipped, "pruned", stats.Pruned,
			"snapshot_fails", stats.SnapshotFails)

		sleep := l.opts.Interval - elapsed
		if sleep < 0 {
			l.log.Warn("Cycle overran interval", "elapsed", elapsed, "interval", l.opts.Interval)
			sleep = 0
		}

		select {
		case <-ctx.Done():
			l.log.Info("Shutdown requested, writing final snapshot")
			if err := l.writeSnapshot(context.Background(), stats.Errors()); err != nil {
				return fmt.Errorf("final snapshot: %w", err)
			}
			return nil
		case <-time.After(sleep):
		}
	}
}

// RunCycle performs one full collection pass: fetch, flatten, upsert,
// retention, snapshot. A failing source or match only loses its own data.
func (l *Loop) RunCycle(ctx context.Context) CycleStats {
	cycle := l.store.BeginCycle()
	seen := identity.NewSeenSet()

	var stats CycleStats
	for _, src := range l.sources {
		fetchCtx, cancel := context.WithTimeout(ctx, l.opts.FetchTimeout)
		payloads, err := src.Fetch(fetchCtx)
		cancel()
		if err != nil {
			stats.SourcesFailed++
			l.log.Error("Source fetch failed", "source", src.Name(), "error", err)
			continue
		}
		stats.SourcesOK++
		stats.Payloads += len(payloads)
		l.processPayloads(ctx, payloads, seen, &stats)
	}

	if l.opts.Retention.Enabled() {
		stats.Pruned = l.opts.Retention.Apply(l.store, time.Now().UTC())
	}

	if err := l.writeSnapshot(ctx, stats.Errors()); err != nil {
		stats.SnapshotFails++
		l.log.Error("Snapshot write failed", "cycle", cycle, "error", err)
	}
	return stats
}

// processPayloads converts one source's payloads in parallel. Store and
// stats access stay serialized; only the pure normalization work fans out.
func (l *Loop) processPayloads(ctx context.Context, payloads []models.RawPayload,
	seen *identity.SeenSet, stats *CycleStats) {

	type result struct {
		match *models.CanonicalMatch
		stats flatten.Stats
		err   error
	}
	results := make([]result, len(payloads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Workers)
	for i := range payloads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = result{err: err}
				return nil
			}
			m, fs, err := l.buildMatch(payloads[i], seen)
			results[i] = result{match: m, stats: fs, err: err}
			return nil
		})
	}
	g.Wait()

	for i := range results {
		r := &results[i]
		stats.Flatten.Add(r.stats)
		if r.err != nil || r.match == nil {
			stats.Skipped++
			l.log.Warn("Payload skipped",
				"source", payloads[i].Source, "fixture_id", payloads[i].FixtureID, "error", r.err)
			continue
		}
		l.store.Upsert(r.match)
		stats.Upserts++

		if l.publisher != nil {
			if err := l.publisher.PublishMatch(ctx, r.match); err != nil {
				l.log.Warn("Publish failed", "match_id", r.match.MatchID, "error", err)
			}
		}
		if l.opts.PerMatchSnapshot {
			if err := l.writeSnapshot(ctx, stats.Errors()); err != nil {
				l.log.Warn("Per-match snapshot failed", "match_id", r.match.MatchID, "error", err)
			}
		}
	}
}

// buildMatch normalizes one payload into a canonical match. The identity is
// computed from normalized team names so every source lands on the same key.
func (l *Loop) buildMatch(p models.RawPayload, seen *identity.SeenSet) (*models.CanonicalMatch, flatten.Stats, error) {
	var fs flatten.Stats
	if p.HomeTeam == "" && len(p.Competitors) == 0 {
		return nil, fs, fmt.Errorf("payload has no competitors")
	}

	home := l.norm.Normalize(p.HomeTeam, p.Sport, p.League)
	away := l.norm.Normalize(p.AwayTeam, p.Sport, p.League)

	var matchID string
	var err error
	if taxonomy.MultiEntrant(taxonomy.Sport(p.Sport)) {
		// outright events carry a competitor list, not a home/away pair
		if home == "" && len(p.Competitors) > 0 {
			home = l.norm.Normalize(p.Competitors[0], p.Sport, p.League)
		}
		matchID, err = identity.OutrightID(home, p.StartTime)
	} else {
		matchID, err = identity.MatchID(home, away, p.StartTime)
	}
	if err != nil {
		return nil, fs, fmt.Errorf("compute match id: %w", err)
	}

	odds, fs := l.flattener.Flatten(p, seen)

	var status models.MatchStatus
	if p.Status != "" {
		status = models.ParseStatus(p.Status)
	} else {
		status = models.DeriveStatus(p.StartTime, time.Now().UTC(), taxonomy.Lookup(taxonomy.Sport(p.Sport)).Duration)
	}

	return &models.CanonicalMatch{
		MatchID:   matchID,
		GameID:    p.FixtureID,
		Sport:     p.Sport,
		HomeTeam:  home,
		AwayTeam:  away,
		StartTime: p.StartTime,
		Status:    status,
		League:    p.League,
		Odds:      odds,
		Source: models.SourceMeta{
			SourceName:  p.Source,
			LastUpdated: time.Now().UTC(),
		},
	}, fs, nil
}

// writeSnapshot exports the store and pushes the document to every writer.
// The first failure is returned but later writers still run.
func (l *Loop) writeSnapshot(ctx context.Context, errorsSeen int) error {
	doc := snapshot.NewDocument(l.runID, l.store.Cycle(), errorsSeen, l.store.Export())
	var firstErr error
	for _, w := range l.writers {
		if err := w.WriteSnapshot(ctx, doc); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
