// Package retention decides when matches that stopped appearing upstream
// are removed. Removal is an explicit, tunable policy applied by the loop
// between cycles; the pipeline itself never deletes. The zero-value policy
// keeps everything, so transient source flakiness can never empty the
// store by default.
package retention

import (
	"time"

	"github.com/akulov/oddsgrid/internal/pkg/models"
	"github.com/akulov/oddsgrid/internal/pkg/store"
)

// Policy configures match removal.
type Policy struct {
	// MaxMissedCycles prunes a match after this many consecutive cycles
	// without an observation. 0 disables missed-cycle pruning.
	MaxMissedCycles uint64 `yaml:"max_missed_cycles"`
	// DropFinishedAfter prunes finished matches whose scheduled time is
	// this far in the past. 0 disables.
	DropFinishedAfter time.Duration `yaml:"drop_finished_after"`
}

// Enabled reports whether the policy can remove anything at all.
func (p Policy) Enabled() bool {
	return p.MaxMissedCycles > 0 || p.DropFinishedAfter > 0
}

// Apply prunes the store per the policy and returns how many records were
// removed.
func (p Policy) Apply(s *store.MatchStore, now time.Time) int {
	if !p.Enabled() {
		return 0
	}
	return s.Prune(func(m *models.CanonicalMatch, missed uint64) bool {
		if p.MaxMissedCycles > 0 && missed > p.MaxMissedCycles {
			return false
		}
		if p.DropFinishedAfter > 0 && m.Status == models.StatusFinished &&
			!m.StartTime.IsZero() && now.Sub(m.StartTime) > p.DropFinishedAfter {
			return false
		}
		return true
	})
}
