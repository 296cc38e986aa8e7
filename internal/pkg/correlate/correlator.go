// Package correlate fuzzy-matches canonical matches observed independently
// by two sources. Matching is a documented greedy best-candidate
// approximation, not a global optimum: each match from source A takes its
// highest-similarity candidate from source B, ties broken by first-seen
// order.
package correlate

import (
	"github.com/akulov/oddsgrid/internal/pkg/models"
	"github.com/akulov/oddsgrid/internal/pkg/teams"
)

// DefaultThreshold is the minimum similarity to accept a candidate pair.
const DefaultThreshold = 0.75

// Correlator matches equivalent matches across two sources despite
// inconsistent team naming.
type Correlator struct {
	sim       Similarity
	threshold float64
	teams     *teams.Normalizer
}

// New creates a Correlator. A nil similarity falls back to
// LevenshteinRatio, a zero threshold to DefaultThreshold, a nil normalizer
// to the built-in alias table.
func New(sim Similarity, threshold float64, normalizer *teams.Normalizer) *Correlator {
	if sim == nil {
		sim = LevenshteinRatio
	}
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if normalizer == nil {
		normalizer = teams.NewNormalizer(teams.BuiltinAliases())
	}
	return &Correlator{sim: sim, threshold: threshold, teams: normalizer}
}

// Score computes the similarity of two matches: the average of the
// home-name and away-name similarities over alias-normalized,
// club-token-stripped forms.
func (c *Correlator) Score(a, b models.CanonicalMatch) float64 {
	homeA := c.teams.Comparable(a.HomeTeam, a.Sport, a.League)
	homeB := c.teams.Comparable(b.HomeTeam, b.Sport, b.League)
	awayA := c.teams.Comparable(a.AwayTeam, a.Sport, a.League)
	awayB := c.teams.Comparable(b.AwayTeam, b.Sport, b.League)
	return (c.sim(homeA, homeB) + c.sim(awayA, awayB)) / 2
}

// Best returns the index and score of the highest-similarity candidate for
// a, or ok=false when no candidate reaches the threshold. The first
// candidate to reach the best score wins, which keeps results
// deterministic for a fixed candidate order.
func (c *Correlator) Best(a models.CanonicalMatch, candidates []models.CanonicalMatch) (idx int, score float64, ok bool) {
	idx = -1
	for i, cand := range candidates {
		if cand.Sport != "" && a.Sport != "" && cand.Sport != a.Sport {
			continue
		}
		s := c.Score(a, cand)
		if s > score {
			score, idx = s, i
		}
	}
	if idx < 0 || score < c.threshold {
		return -1, score, false
	}
	return idx, score, true
}
