// Package taxonomy declares, per sport, which canonical odds field groups
// exist. The flattener consults this table instead of branching on sport
// names, so supporting a new sport is a row addition here.
package taxonomy

import "time"

// Sport is a canonical sport identifier.
type Sport string

const (
	Football   Sport = "football" // association football
	Basketball Sport = "basketball"
	Tennis     Sport = "tennis"
	Hockey     Sport = "hockey"
	Baseball   Sport = "baseball"
	AmFootball Sport = "american_football"
	MMA        Sport = "mma"
	Golf       Sport = "golf"
	Racing     Sport = "racing"
)

// FieldGroup is one canonical odds field group a sport can support.
type FieldGroup string

const (
	GroupMoneyline FieldGroup = "moneyline"
	GroupDraw      FieldGroup = "draw" // three-way moneyline
	GroupSpread    FieldGroup = "spread"
	GroupTotal     FieldGroup = "total"
	GroupOutright  FieldGroup = "outright" // per-competitor market->price
)

// Row describes one sport: its supported field groups in canonical order
// and a typical event duration, used to bound the live-status window when
// a source doesn't report status itself.
type Row struct {
	Groups   []FieldGroup
	Duration time.Duration
}

var table = map[Sport]Row{
	Football:   {Groups: []FieldGroup{GroupMoneyline, GroupDraw, GroupSpread, GroupTotal}, Duration: 2 * time.Hour},
	Basketball: {Groups: []FieldGroup{GroupSpread, GroupTotal, GroupMoneyline}, Duration: 3 * time.Hour},
	Tennis:     {Groups: []FieldGroup{GroupMoneyline}, Duration: 4 * time.Hour},
	Hockey:     {Groups: []FieldGroup{GroupMoneyline, GroupDraw, GroupSpread, GroupTotal}, Duration: 3 * time.Hour},
	Baseball:   {Groups: []FieldGroup{GroupMoneyline, GroupSpread, GroupTotal}, Duration: 4 * time.Hour},
	AmFootball: {Groups: []FieldGroup{GroupSpread, GroupTotal, GroupMoneyline}, Duration: 4 * time.Hour},
	MMA:        {Groups: []FieldGroup{GroupMoneyline}, Duration: 1 * time.Hour},
	Golf:       {Groups: []FieldGroup{GroupOutright}, Duration: 12 * time.Hour},
	Racing:     {Groups: []FieldGroup{GroupOutright}, Duration: 6 * time.Hour},
}

// defaultRow is used for sports the table doesn't list: two-way moneyline
// only, so an unknown sport still yields something rather than nothing.
var defaultRow = Row{Groups: []FieldGroup{GroupMoneyline}, Duration: 3 * time.Hour}

// Lookup returns the taxonomy row for a sport, falling back to the default
// row for sports not in the table.
func Lookup(sport Sport) Row {
	if row, ok := table[sport]; ok {
		return row
	}
	return defaultRow
}

// Supports reports whether the sport's row contains the given field group.
func Supports(sport Sport, group FieldGroup) bool {
	for _, g := range Lookup(sport).Groups {
		if g == group {
			return true
		}
	}
	return false
}

// MultiEntrant reports whether the sport uses per-competitor outright
// markets instead of home/away slots.
func MultiEntrant(sport Sport) bool {
	return Supports(sport, GroupOutright)
}

// Known reports whether the sport has an explicit table row.
func Known(sport Sport) bool {
	_, ok := table[sport]
	return ok
}

// All returns every sport with an explicit table row.
func All() []Sport {
	out := make([]Sport, 0, len(table))
	for s := range table {
		out = append(out, s)
	}
	return out
}
