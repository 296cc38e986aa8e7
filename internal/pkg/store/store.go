// Package store holds the canonical match records for one run. The store is
// created per run and injected into the ingestion loop; there is no ambient
// global state.
package store

import (
	"sort"
	"sync"

	"github.com/akulov/oddsgrid/internal/pkg/models"
)

// MatchStore maps match_id to its canonical record with insert-or-update
// semantics. One mutex covers both mutation and full-store serialization:
// the snapshot writer walks the whole map, so readers can never interleave
// with a half-applied update.
type MatchStore struct {
	mu       sync.Mutex
	matches  map[string]*models.CanonicalMatch
	lastSeen map[string]uint64 // match_id -> cycle of last observation
	cycle    uint64
}

// New creates an empty store.
func New() *MatchStore {
	return &MatchStore{
		matches:  make(map[string]*models.CanonicalMatch),
		lastSeen: make(map[string]uint64),
	}
}

// BeginCycle advances the store's cycle counter. Called once by the
// ingestion loop at the start of each cycle; upserts are attributed to the
// current cycle for retention accounting.
func (s *MatchStore) BeginCycle() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycle++
	return s.cycle
}

// Cycle returns the current cycle number without advancing it.
func (s *MatchStore) Cycle() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle
}

// Upsert inserts the match or overlays it onto the existing record with the
// same match_id. Odds are overlaid field by field, status and last-updated
// always refresh, and descriptive fields (teams, league, game id) keep
// their original-insert values unless they were empty.
func (s *MatchStore) Upsert(m *models.CanonicalMatch) {
	if m == nil || m.MatchID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen[m.MatchID] = s.cycle

	existing, ok := s.matches[m.MatchID]
	if !ok {
		cp := *m
		s.matches[m.MatchID] = &cp
		return
	}

	existing.Odds.Overlay(m.Odds)
	if m.Status != "" {
		existing.Status = m.Status
	}
	existing.Source.LastUpdated = m.Source.LastUpdated
	if existing.Source.SourceName == "" {
		existing.Source.SourceName = m.Source.SourceName
	}

	// descriptive fields survive from the first observation
	if existing.HomeTeam == "" {
		existing.HomeTeam = m.HomeTeam
	}
	if existing.AwayTeam == "" {
		existing.AwayTeam = m.AwayTeam
	}
	if existing.League == "" {
		existing.League = m.League
	}
	if existing.GameID == "" {
		existing.GameID = m.GameID
	}
	if existing.Sport == "" {
		existing.Sport = m.Sport
	}
	if existing.StartTime.IsZero() {
		existing.StartTime = m.StartTime
	}
}

// Get returns a copy of the record, if present.
func (s *MatchStore) Get(matchID string) (models.CanonicalMatch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return models.CanonicalMatch{}, false
	}
	return *m, true
}

// Len returns the number of stored matches.
func (s *MatchStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

// Export returns copies of every record, ordered by match_id so snapshots
// are byte-stable for identical store contents. Runs under the same lock as
// Upsert: a concurrent writer can never produce a half-written view.
func (s *MatchStore) Export() []models.CanonicalMatch {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.CanonicalMatch, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out
}

// Prune removes records the keep function rejects. missed is how many full
// cycles have passed since the record was last observed. There is no other
// removal path; only the retention policy calls this.
func (s *MatchStore) Prune(keep func(m *models.CanonicalMatch, missed uint64) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, m := range s.matches {
		missed := s.cycle - s.lastSeen[id]
		if keep(m, missed) {
			continue
		}
		delete(s.matches, id)
		delete(s.lastSeen, id)
		removed++
	}
	return removed
}
