package correlate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulov/oddsgrid/internal/pkg/models"
)

func football(home, away string) models.CanonicalMatch {
	return models.CanonicalMatch{
		Sport:     "football",
		HomeTeam:  home,
		AwayTeam:  away,
		StartTime: time.Date(2025, 3, 2, 20, 0, 0, 0, time.UTC),
	}
}

func TestLevenshteinRatio(t *testing.T) {
	assert.Equal(t, 1.0, LevenshteinRatio("barcelona", "barcelona"))
	assert.Equal(t, 0.0, LevenshteinRatio("", "barcelona"))
	// one substitution over nine runes
	assert.InDelta(t, 1-1.0/9, LevenshteinRatio("barcelona", "barcelonq"), 1e-9)
	assert.Less(t, LevenshteinRatio("barcelona", "real madrid"), 0.5)
}

func TestBest_ThresholdBoundary(t *testing.T) {
	// a fake similarity pins the score precisely at/below the threshold
	for _, tt := range []struct {
		score    float64
		accepted bool
	}{
		{0.75, true},
		{0.749, false},
	} {
		c := New(func(a, b string) float64 { return tt.score }, DefaultThreshold, nil)
		_, score, ok := c.Best(football("A", "B"), []models.CanonicalMatch{football("C", "D")})
		assert.InDelta(t, tt.score, score, 1e-9)
		assert.Equal(t, tt.accepted, ok, "score %v", tt.score)
	}
}

func TestBest_PicksHighestFirstSeen(t *testing.T) {
	c := New(nil, DefaultThreshold, nil)
	a := football("Barcelona", "Real Madrid")
	candidates := []models.CanonicalMatch{
		football("Espanyol", "Real Madrid"),
		football("Barcelona", "Real Madrid"), // exact
		football("Barcelona", "Real Madrid"), // duplicate: tie broken by order
	}
	idx, score, ok := c.Best(a, candidates)
	require.True(t, ok)
	assert.Equal(t, 1, idx, "first of the tied candidates wins")
	assert.Equal(t, 1.0, score)
}

func TestBest_SportMismatchSkipped(t *testing.T) {
	c := New(nil, DefaultThreshold, nil)
	a := football("Barcelona", "Real Madrid")
	hockey := football("Barcelona", "Real Madrid")
	hockey.Sport = "hockey"
	_, _, ok := c.Best(a, []models.CanonicalMatch{hockey})
	assert.False(t, ok, "identical names in a different sport are not the same match")
}

func TestScore_ClubSuffixesConverge(t *testing.T) {
	c := New(nil, DefaultThreshold, nil)
	a := football("Barcelona", "Real Madrid")
	b := football("FC Barcelona", "Real Madrid CF")

	score := c.Score(a, b)
	assert.GreaterOrEqual(t, score, DefaultThreshold,
		"club-form naming of the same fixture must clear the threshold")

	idx, _, ok := c.Best(a, []models.CanonicalMatch{b})
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestRun_Report(t *testing.T) {
	c := New(nil, DefaultThreshold, nil)
	matchesA := []models.CanonicalMatch{
		football("Barcelona", "Real Madrid"),
		football("Aleatoric Rovers", "Stochastic Town"),
	}
	matchesB := []models.CanonicalMatch{
		football("FC Barcelona", "Real Madrid CF"),
		football("Villarreal", "Sevilla"),
	}

	r := c.Run("bookie_a", "bookie_b", matchesA, matchesB)
	assert.Equal(t, 2, r.TotalA)
	assert.Equal(t, 2, r.TotalB)
	assert.Equal(t, 1, r.Matched)
	assert.InDelta(t, 50.0, r.MatchRate, 1e-9)
	require.Len(t, r.Comparisons, 2)
	assert.True(t, r.Comparisons[0].Accepted)
	require.NotNil(t, r.Comparisons[0].MatchB)
	assert.Equal(t, "FC Barcelona", r.Comparisons[0].MatchB.HomeTeam)
	assert.False(t, r.Comparisons[1].Accepted)
	assert.NotEmpty(t, r.Insights)
}

func TestRun_Deterministic(t *testing.T) {
	c := New(nil, DefaultThreshold, nil)
	matchesA := []models.CanonicalMatch{football("Barcelona", "Real Madrid")}
	matchesB := []models.CanonicalMatch{
		football("FC Barcelona", "Real Madrid CF"),
		football("Barcelona B", "Real Madrid Castilla"),
	}
	first := c.Run("a", "b", matchesA, matchesB)
	second := c.Run("a", "b", matchesA, matchesB)
	require.Equal(t, first.Matched, second.Matched)
	assert.Equal(t, first.Comparisons[0].MatchB.HomeTeam, second.Comparisons[0].MatchB.HomeTeam)
}
