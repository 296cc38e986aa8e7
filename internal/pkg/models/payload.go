package models

import "time"

// RawPayload is one match as delivered by a source adapter, before any
// normalization. Shape follows the collaborator contract: competitor names,
// kickoff time, and a list of markets with (selection, price, optional line)
// runners. Ephemeral; nothing downstream holds on to it after flattening.
type RawPayload struct {
	Source      string     `json:"source"`
	Sport       string     `json:"sport"`
	FixtureID   string     `json:"fixture_id"`
	Region      string     `json:"region,omitempty"`
	League      string     `json:"league,omitempty"`
	HomeTeam    string     `json:"home_team"`
	AwayTeam    string     `json:"away_team"`
	Competitors []string   `json:"competitors,omitempty"` // multi-entrant sports only
	StartTime   time.Time  `json:"start_time"`
	Status      string     `json:"status,omitempty"`
	Markets     []RawMarket `json:"markets"`
}

// RawMarket is one betting market as named by the source ("Money",
// "Handicap", "Over/Under 2.5", ...).
type RawMarket struct {
	Name    string      `json:"name"`
	Runners []RawRunner `json:"runners"`
}

// RawRunner is one selection within a raw market. Price is kept as the
// source's string ("-150", "2.50", "3/2"); parsing is the flattener's job.
type RawRunner struct {
	Selection string   `json:"selection"`
	Price     string   `json:"price"`
	Line      *float64 `json:"line,omitempty"`
}
