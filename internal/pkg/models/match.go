package models

import "time"

// MatchStatus is the lifecycle state of a match as observed from a source.
type MatchStatus string

const (
	StatusUpcoming MatchStatus = "upcoming"
	StatusLive     MatchStatus = "live"
	StatusFinished MatchStatus = "finished"
)

// ParseStatus maps a source's free-form status string onto MatchStatus.
// Unknown values return StatusUpcoming so a weird source tag never drops a match.
func ParseStatus(s string) MatchStatus {
	switch MatchStatus(s) {
	case StatusLive, StatusFinished, StatusUpcoming:
		return MatchStatus(s)
	}
	return StatusUpcoming
}

// DeriveStatus infers a match status from its scheduled time when the
// source doesn't report one. The live window is bounded by the sport's
// typical duration.
func DeriveStatus(scheduled, now time.Time, duration time.Duration) MatchStatus {
	if scheduled.IsZero() || now.Before(scheduled) {
		return StatusUpcoming
	}
	if now.Before(scheduled.Add(duration)) {
		return StatusLive
	}
	return StatusFinished
}

// SourceMeta records where and when a canonical match was last observed.
type SourceMeta struct {
	SourceName  string    `json:"source_name"`
	LastUpdated time.Time `json:"last_updated"`
}

// CanonicalMatch is the single normalized representation of one real-world
// match, independent of which source produced it. Owned by the MatchStore;
// mutated only through its insert-or-update path.
type CanonicalMatch struct {
	MatchID   string        `json:"match_id"`
	GameID    string        `json:"game_id"` // source-scoped fixture id of the first observation
	Sport     string        `json:"sport"`
	HomeTeam  string        `json:"home_team"`
	AwayTeam  string        `json:"away_team"`
	StartTime time.Time     `json:"scheduled_time"`
	Status    MatchStatus   `json:"status"`
	League    string        `json:"league"`
	Odds      CanonicalOdds `json:"odds"`
	Source    SourceMeta    `json:"source_metadata"`
}

// PriceLine is one side of a handicap market: a line plus its American price.
type PriceLine struct {
	Line float64 `json:"line"`
	Odds int     `json:"odds"`
}

// TotalLine is an over/under market: one line and a price per direction.
type TotalLine struct {
	Line  float64 `json:"line"`
	Over  int     `json:"over_odds"`
	Under int     `json:"under_odds"`
}

// CompetitorOdds holds per-competitor prices for multi-entrant sports
// (golf, racing) where home/away slots make no sense.
type CompetitorOdds struct {
	Name    string         `json:"name"`
	Markets map[string]int `json:"markets"` // market name -> American price
}

// CanonicalOdds is the flattened odds view for one match. Which fields are
// populated depends on the sport's taxonomy row; everything else stays nil.
// Prices are American-format integers.
type CanonicalOdds struct {
	MoneylineHome *int             `json:"moneyline_home,omitempty"`
	MoneylineDraw *int             `json:"moneyline_draw,omitempty"`
	MoneylineAway *int             `json:"moneyline_away,omitempty"`
	SpreadHome    *PriceLine       `json:"spread_home,omitempty"`
	SpreadAway    *PriceLine       `json:"spread_away,omitempty"`
	Total         *TotalLine       `json:"total,omitempty"`
	Competitors   []CompetitorOdds `json:"competitors,omitempty"`
}

// IsEmpty reports whether no odds field was populated at all.
func (o CanonicalOdds) IsEmpty() bool {
	return o.MoneylineHome == nil && o.MoneylineDraw == nil && o.MoneylineAway == nil &&
		o.SpreadHome == nil && o.SpreadAway == nil && o.Total == nil &&
		len(o.Competitors) == 0
}

// Overlay applies the non-nil fields of next on top of o, field by field.
// Applying the same overlay twice is a no-op, so observation order within
// a cycle doesn't matter.
func (o *CanonicalOdds) Overlay(next CanonicalOdds) {
	if next.MoneylineHome != nil {
		o.MoneylineHome = next.MoneylineHome
	}
	if next.MoneylineDraw != nil {
		o.MoneylineDraw = next.MoneylineDraw
	}
	if next.MoneylineAway != nil {
		o.MoneylineAway = next.MoneylineAway
	}
	if next.SpreadHome != nil {
		o.SpreadHome = next.SpreadHome
	}
	if next.SpreadAway != nil {
		o.SpreadAway = next.SpreadAway
	}
	if next.Total != nil {
		o.Total = next.Total
	}
	if len(next.Competitors) > 0 {
		o.Competitors = next.Competitors
	}
}
