package correlate

import (
	"fmt"

	"github.com/akulov/oddsgrid/internal/pkg/models"
)

// Comparison is one cross-source pairing attempt for the report.
type Comparison struct {
	MatchA     models.CanonicalMatch `json:"match_a"`
	MatchB     *models.CanonicalMatch `json:"match_b,omitempty"`
	Similarity float64               `json:"similarity_score"`
	Accepted   bool                  `json:"accepted"`
}

// Report is the correlation pass output, shaped for the downstream
// narrative consumer. Transient; never stored as primary state.
type Report struct {
	SourceA      string       `json:"source_a"`
	SourceB      string       `json:"source_b"`
	TotalA       int          `json:"total_a"`
	TotalB       int          `json:"total_b"`
	Matched      int          `json:"matched"`
	MatchRate    float64      `json:"match_rate_percent"`
	Comparisons  []Comparison `json:"comparisons"`
	Insights     []string     `json:"insights"`
}

// Run correlates every match from source A against source B's candidates
// and assembles the report. Candidates already claimed by an earlier A
// match stay available to later ones; the greedy pass is intentionally
// simple and order-deterministic.
func (c *Correlator) Run(sourceA, sourceB string, matchesA, matchesB []models.CanonicalMatch) *Report {
	r := &Report{
		SourceA:     sourceA,
		SourceB:     sourceB,
		TotalA:      len(matchesA),
		TotalB:      len(matchesB),
		Comparisons: make([]Comparison, 0, len(matchesA)),
	}

	for _, a := range matchesA {
		idx, score, ok := c.Best(a, matchesB)
		comp := Comparison{MatchA: a, Similarity: score, Accepted: ok}
		if ok {
			b := matchesB[idx]
			comp.MatchB = &b
			r.Matched++
		}
		r.Comparisons = append(r.Comparisons, comp)
	}

	if r.TotalA > 0 {
		r.MatchRate = 100 * float64(r.Matched) / float64(r.TotalA)
	}
	r.Insights = buildInsights(r)
	return r
}

func buildInsights(r *Report) []string {
	insights := []string{
		fmt.Sprintf("%d of %d %s matches found in %s (%.1f%%)",
			r.Matched, r.TotalA, r.SourceA, r.SourceB, r.MatchRate),
	}

	var best, worst *Comparison
	for i := range r.Comparisons {
		c := &r.Comparisons[i]
		if !c.Accepted {
			continue
		}
		if best == nil || c.Similarity > best.Similarity {
			best = c
		}
		if worst == nil || c.Similarity < worst.Similarity {
			worst = c
		}
	}
	if best != nil {
		insights = append(insights, fmt.Sprintf("strongest pairing: %s vs %s / %s vs %s (%.3f)",
			best.MatchA.HomeTeam, best.MatchA.AwayTeam,
			best.MatchB.HomeTeam, best.MatchB.AwayTeam, best.Similarity))
	}
	if worst != nil && worst != best {
		insights = append(insights, fmt.Sprintf("weakest accepted pairing: %s vs %s / %s vs %s (%.3f)",
			worst.MatchA.HomeTeam, worst.MatchA.AwayTeam,
			worst.MatchB.HomeTeam, worst.MatchB.AwayTeam, worst.Similarity))
	}
	if unmatched := r.TotalA - r.Matched; unmatched > 0 {
		insights = append(insights, fmt.Sprintf("%d %s matches had no counterpart above threshold",
			unmatched, r.SourceA))
	}
	return insights
}
