package ingest

import "github.com/akulov/oddsgrid/internal/pkg/flatten"

// CycleStats aggregates one cycle's outcomes across all sources.
type CycleStats struct {
	SourcesOK     int
	SourcesFailed int
	Payloads      int
	Upserts       int
	Skipped       int
	Pruned        int
	SnapshotFails int
	Flatten       flatten.Stats
}

// Errors counts everything that went wrong during the cycle, reported in
// the snapshot's counts block.
func (s CycleStats) Errors() int {
	return s.SourcesFailed + s.Skipped + s.Flatten.MalformedPrices
}
