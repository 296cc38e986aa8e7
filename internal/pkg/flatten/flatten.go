// Package flatten converts one match's raw market list into canonical odds
// fields. It is sport-agnostic: which fields may be populated comes from the
// sport's taxonomy row, and market-name classification comes from the
// category table.
package flatten

import (
	"strings"

	"github.com/akulov/oddsgrid/internal/pkg/identity"
	"github.com/akulov/oddsgrid/internal/pkg/models"
	"github.com/akulov/oddsgrid/internal/pkg/odds"
	"github.com/akulov/oddsgrid/internal/pkg/taxonomy"
	"github.com/akulov/oddsgrid/internal/pkg/teams"
)

// Deduper suppresses categories already flattened this cycle. A nil Deduper
// disables suppression.
type Deduper interface {
	Seen(key identity.DedupKey) bool
}

// Stats counts what one flattening pass recovered from. Every field is a
// recoverable condition; none of them aborts the match.
type Stats struct {
	MalformedPrices     int
	UnrecognizedMarkets int
	ShortCategories     int
	DedupSuppressed     int
}

// Add accumulates another pass's counters into s.
func (s *Stats) Add(o Stats) {
	s.MalformedPrices += o.MalformedPrices
	s.UnrecognizedMarkets += o.UnrecognizedMarkets
	s.ShortCategories += o.ShortCategories
	s.DedupSuppressed += o.DedupSuppressed
}

// Flattener turns raw market lists into canonical odds.
type Flattener struct {
	categories *CategoryTable
}

// New creates a Flattener using the given category table (nil means the
// default table).
func New(categories *CategoryTable) *Flattener {
	if categories == nil {
		categories = DefaultCategoryTable()
	}
	return &Flattener{categories: categories}
}

// Flatten converts the payload's markets into canonical odds. Markets whose
// name the category table doesn't know are ignored; a category with fewer
// runners than it needs is skipped without touching other categories; an
// unparsable price leaves just that field unset.
func (f *Flattener) Flatten(p models.RawPayload, dedupe Deduper) (models.CanonicalOdds, Stats) {
	var out models.CanonicalOdds
	var stats Stats
	sport := taxonomy.Sport(p.Sport)

	for _, market := range p.Markets {
		category, ok := f.categories.Classify(market.Name)
		if !ok {
			stats.UnrecognizedMarkets++
			continue
		}
		if !taxonomy.Supports(sport, category.fieldGroup()) {
			// the taxonomy row decides which fields exist for this sport
			continue
		}
		if dedupe != nil && dedupe.Seen(identity.DedupKey{
			FixtureID: p.FixtureID,
			Category:  string(category),
			Region:    p.Region,
		}) {
			stats.DedupSuppressed++
			continue
		}

		if taxonomy.MultiEntrant(sport) {
			f.flattenOutright(&out, market, &stats)
			continue
		}

		switch category {
		case CategoryMoneyline:
			f.flattenMoneyline(&out, p, market, sport, &stats)
		case CategorySpread:
			f.flattenSpread(&out, p, market, &stats)
		case CategoryTotal:
			f.flattenTotal(&out, market, &stats)
		}
	}
	return out, stats
}

func (f *Flattener) flattenMoneyline(out *models.CanonicalOdds, p models.RawPayload, market models.RawMarket, sport taxonomy.Sport, stats *Stats) {
	if len(market.Runners) < 2 {
		stats.ShortCategories++
		return
	}

	var home, draw, away *models.RawRunner
	var unassigned []*models.RawRunner
	for i := range market.Runners {
		r := &market.Runners[i]
		switch {
		case isDrawSelection(r.Selection):
			draw = r
		case matchesTeam(r.Selection, p.HomeTeam):
			home = r
		case matchesTeam(r.Selection, p.AwayTeam):
			away = r
		default:
			unassigned = append(unassigned, r)
		}
	}
	// positional fallback: first leftover is home, next is away
	for _, r := range unassigned {
		if home == nil {
			home = r
		} else if away == nil {
			away = r
		}
	}

	if home != nil {
		setPrice(&out.MoneylineHome, home.Price, stats)
	}
	if away != nil {
		setPrice(&out.MoneylineAway, away.Price, stats)
	}
	if draw != nil && taxonomy.Supports(sport, taxonomy.GroupDraw) {
		setPrice(&out.MoneylineDraw, draw.Price, stats)
	}
}

func (f *Flattener) flattenSpread(out *models.CanonicalOdds, p models.RawPayload, market models.RawMarket, stats *Stats) {
	if len(market.Runners) < 2 {
		stats.ShortCategories++
		return
	}

	var home, away *models.RawRunner
	for i := range market.Runners {
		r := &market.Runners[i]
		if matchesTeam(r.Selection, p.HomeTeam) && home == nil {
			home = r
		} else if matchesTeam(r.Selection, p.AwayTeam) && away == nil {
			away = r
		}
	}
	if home == nil && away == nil {
		home, away = &market.Runners[0], &market.Runners[1]
	} else if home == nil {
		home = firstOther(market.Runners, away)
	} else if away == nil {
		away = firstOther(market.Runners, home)
	}
	if home == nil || away == nil {
		stats.ShortCategories++
		return
	}

	if line := home.Line; line != nil {
		if price, err := odds.ParseAmerican(home.Price); err == nil {
			out.SpreadHome = &models.PriceLine{Line: *line, Odds: price}
		} else {
			stats.MalformedPrices++
		}
	}
	if line := away.Line; line != nil {
		if price, err := odds.ParseAmerican(away.Price); err == nil {
			out.SpreadAway = &models.PriceLine{Line: *line, Odds: price}
		} else {
			stats.MalformedPrices++
		}
	}
}

func (f *Flattener) flattenTotal(out *models.CanonicalOdds, market models.RawMarket, stats *Stats) {
	if len(market.Runners) < 2 {
		stats.ShortCategories++
		return
	}

	var over, under *models.RawRunner
	for i := range market.Runners {
		r := &market.Runners[i]
		sel := strings.ToLower(r.Selection)
		if strings.Contains(sel, "over") && over == nil {
			over = r
		} else if strings.Contains(sel, "under") && under == nil {
			under = r
		}
	}
	if over == nil && under == nil {
		// positional fallback: over is quoted first by every supported source
		over, under = &market.Runners[0], &market.Runners[1]
	} else if over == nil {
		over = firstOther(market.Runners, under)
	} else if under == nil {
		under = firstOther(market.Runners, over)
	}
	if over == nil || under == nil {
		stats.ShortCategories++
		return
	}

	line := over.Line
	if line == nil {
		line = under.Line
	}
	if line == nil {
		stats.ShortCategories++
		return
	}
	overPrice, errOver := odds.ParseAmerican(over.Price)
	underPrice, errUnder := odds.ParseAmerican(under.Price)
	if errOver != nil || errUnder != nil {
		stats.MalformedPrices++
		return
	}
	out.Total = &models.TotalLine{Line: *line, Over: overPrice, Under: underPrice}
}

// flattenOutright emits one entry per competitor per market for
// multi-entrant sports.
func (f *Flattener) flattenOutright(out *models.CanonicalOdds, market models.RawMarket, stats *Stats) {
	byName := make(map[string]*models.CompetitorOdds, len(out.Competitors))
	for i := range out.Competitors {
		byName[out.Competitors[i].Name] = &out.Competitors[i]
	}
	for _, r := range market.Runners {
		price, err := odds.ParseAmerican(r.Price)
		if err != nil {
			stats.MalformedPrices++
			continue
		}
		c, ok := byName[r.Selection]
		if !ok {
			out.Competitors = append(out.Competitors, models.CompetitorOdds{
				Name:    r.Selection,
				Markets: map[string]int{},
			})
			c = &out.Competitors[len(out.Competitors)-1]
			byName[r.Selection] = c
		}
		c.Markets[market.Name] = price
	}
}

func setPrice(dst **int, price string, stats *Stats) {
	v, err := odds.ParseAmerican(price)
	if err != nil {
		stats.MalformedPrices++
		return
	}
	*dst = &v
}

func firstOther(runners []models.RawRunner, taken *models.RawRunner) *models.RawRunner {
	for i := range runners {
		if r := &runners[i]; r != taken {
			return r
		}
	}
	return nil
}

var drawWords = map[string]struct{}{"draw": {}, "x": {}, "tie": {}, "empate": {}}

func isDrawSelection(sel string) bool {
	_, ok := drawWords[strings.ToLower(strings.TrimSpace(sel))]
	return ok
}

// matchesTeam reports whether a runner selection refers to the given team.
// Compares cleaned, club-token-stripped forms: equality, containment either
// way, or a shared distinctive last word ("GS Warriors" vs "Golden State
// Warriors").
func matchesTeam(selection, team string) bool {
	s := teams.StripClubTokens(teams.Clean(selection))
	tm := teams.StripClubTokens(teams.Clean(team))
	if s == "" || tm == "" {
		return false
	}
	if s == tm || strings.Contains(s, tm) || strings.Contains(tm, s) {
		return true
	}
	sw := strings.Fields(s)
	tw := strings.Fields(tm)
	return sw[len(sw)-1] == tw[len(tw)-1]
}
