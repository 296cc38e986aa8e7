package flatten

import (
	"testing"
	"time"

	"github.com/akulov/oddsgrid/internal/pkg/identity"
	"github.com/akulov/oddsgrid/internal/pkg/models"
)

func lakersPayload() models.RawPayload {
	return models.RawPayload{
		Source:    "bookie_a",
		Sport:     "basketball",
		FixtureID: "fx-1001",
		Region:    "us",
		HomeTeam:  "Los Angeles Lakers",
		AwayTeam:  "Golden State Warriors",
		StartTime: time.Date(2025, 1, 5, 19, 30, 0, 0, time.UTC),
		Markets: []models.RawMarket{
			{Name: "Money", Runners: []models.RawRunner{
				{Selection: "LA Lakers", Price: "-150"},
				{Selection: "GS Warriors", Price: "+130"},
			}},
		},
	}
}

func TestFlatten_MoneylineScenario(t *testing.T) {
	f := New(nil)
	out, stats := f.Flatten(lakersPayload(), nil)

	if out.MoneylineHome == nil || *out.MoneylineHome != -150 {
		t.Errorf("moneyline_home = %v, want -150", out.MoneylineHome)
	}
	if out.MoneylineAway == nil || *out.MoneylineAway != 130 {
		t.Errorf("moneyline_away = %v, want +130", out.MoneylineAway)
	}
	if out.MoneylineDraw != nil {
		t.Error("basketball must not get a draw price")
	}
	if stats.MalformedPrices != 0 || stats.UnrecognizedMarkets != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestFlatten_ThreeWayWithDraw(t *testing.T) {
	f := New(nil)
	p := models.RawPayload{
		Sport:    "football",
		HomeTeam: "Barcelona",
		AwayTeam: "Real Madrid",
		Markets: []models.RawMarket{
			{Name: "1X2", Runners: []models.RawRunner{
				{Selection: "Barcelona", Price: "2.10"},
				{Selection: "Draw", Price: "3.40"},
				{Selection: "Real Madrid", Price: "3.10"},
			}},
		},
	}
	out, _ := f.Flatten(p, nil)
	if out.MoneylineHome == nil || *out.MoneylineHome != 110 {
		t.Errorf("moneyline_home = %v, want +110", out.MoneylineHome)
	}
	if out.MoneylineDraw == nil || *out.MoneylineDraw != 240 {
		t.Errorf("moneyline_draw = %v, want +240", out.MoneylineDraw)
	}
	if out.MoneylineAway == nil || *out.MoneylineAway != 210 {
		t.Errorf("moneyline_away = %v, want +210", out.MoneylineAway)
	}
}

func TestFlatten_PositionalFallback(t *testing.T) {
	f := New(nil)
	p := models.RawPayload{
		Sport:    "tennis",
		HomeTeam: "Carlos Alcaraz",
		AwayTeam: "Jannik Sinner",
		Markets: []models.RawMarket{
			// selections don't resemble the player names at all
			{Name: "Match Winner", Runners: []models.RawRunner{
				{Selection: "1", Price: "-120"},
				{Selection: "2", Price: "+105"},
			}},
		},
	}
	out, _ := f.Flatten(p, nil)
	if out.MoneylineHome == nil || *out.MoneylineHome != -120 {
		t.Errorf("positional home = %v, want -120", out.MoneylineHome)
	}
	if out.MoneylineAway == nil || *out.MoneylineAway != 105 {
		t.Errorf("positional away = %v, want +105", out.MoneylineAway)
	}
}

func TestFlatten_SpreadAndTotal(t *testing.T) {
	f := New(nil)
	lineHome, lineAway, total := -5.5, 5.5, 220.5
	p := models.RawPayload{
		Sport:    "basketball",
		HomeTeam: "Boston Celtics",
		AwayTeam: "Miami Heat",
		Markets: []models.RawMarket{
			{Name: "Handicap", Runners: []models.RawRunner{
				{Selection: "Celtics", Price: "-110", Line: &lineHome},
				{Selection: "Heat", Price: "-110", Line: &lineAway},
			}},
			{Name: "Over/Under", Runners: []models.RawRunner{
				{Selection: "Over", Price: "-105", Line: &total},
				{Selection: "Under", Price: "-115", Line: &total},
			}},
		},
	}
	out, _ := f.Flatten(p, nil)
	if out.SpreadHome == nil || out.SpreadHome.Line != -5.5 || out.SpreadHome.Odds != -110 {
		t.Errorf("spread_home = %+v", out.SpreadHome)
	}
	if out.SpreadAway == nil || out.SpreadAway.Line != 5.5 {
		t.Errorf("spread_away = %+v", out.SpreadAway)
	}
	if out.Total == nil || out.Total.Line != 220.5 || out.Total.Over != -105 || out.Total.Under != -115 {
		t.Errorf("total = %+v", out.Total)
	}
}

func TestFlatten_TotalKeepsNameMatchedSide(t *testing.T) {
	f := New(nil)
	// only the under runner is recognizable by name; the other side must
	// take the remaining runner instead of both being reassigned by position
	line := 2.5
	p := models.RawPayload{
		Sport:    "football",
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		Markets: []models.RawMarket{
			{Name: "Total Goals", Runners: []models.RawRunner{
				{Selection: "Under 2.5", Price: "-110", Line: &line},
				{Selection: "More than 2.5", Price: "+105", Line: &line},
			}},
		},
	}
	out, _ := f.Flatten(p, nil)
	if out.Total == nil {
		t.Fatal("total not flattened")
	}
	if out.Total.Under != -110 || out.Total.Over != 105 {
		t.Errorf("total = %+v, want over=+105 under=-110", out.Total)
	}
}

func TestFlatten_CategoryIsolation(t *testing.T) {
	f := New(nil)
	p := lakersPayload()
	// malformed total market must not disturb the flattened moneyline
	p.Markets = append(p.Markets, models.RawMarket{
		Name: "Total Points",
		Runners: []models.RawRunner{
			{Selection: "Over", Price: "garbage"},
		},
	})
	out, stats := f.Flatten(p, nil)
	if out.MoneylineHome == nil || *out.MoneylineHome != -150 {
		t.Errorf("moneyline_home should survive a broken total market, got %v", out.MoneylineHome)
	}
	if out.Total != nil {
		t.Error("short total market should be skipped")
	}
	if stats.ShortCategories != 1 {
		t.Errorf("ShortCategories = %d, want 1", stats.ShortCategories)
	}
}

func TestFlatten_MalformedPriceLeavesFieldUnset(t *testing.T) {
	f := New(nil)
	p := lakersPayload()
	p.Markets[0].Runners[1].Price = "n/a"
	out, stats := f.Flatten(p, nil)
	if out.MoneylineHome == nil || *out.MoneylineHome != -150 {
		t.Errorf("home price should still parse, got %v", out.MoneylineHome)
	}
	if out.MoneylineAway != nil {
		t.Error("away price should be unset for malformed input")
	}
	if stats.MalformedPrices != 1 {
		t.Errorf("MalformedPrices = %d, want 1", stats.MalformedPrices)
	}
}

func TestFlatten_UnrecognizedMarketIgnored(t *testing.T) {
	f := New(nil)
	p := lakersPayload()
	p.Markets = append(p.Markets, models.RawMarket{
		Name: "First Player To Dunk",
		Runners: []models.RawRunner{
			{Selection: "LeBron James", Price: "+400"},
			{Selection: "Stephen Curry", Price: "+500"},
		},
	})
	out, stats := f.Flatten(p, nil)
	if stats.UnrecognizedMarkets != 1 {
		t.Errorf("UnrecognizedMarkets = %d, want 1", stats.UnrecognizedMarkets)
	}
	if out.MoneylineHome == nil {
		t.Error("recognized markets should still flatten")
	}
}

func TestFlatten_TaxonomyGatesFields(t *testing.T) {
	f := New(nil)
	line := 2.5
	p := models.RawPayload{
		Sport:    "tennis", // taxonomy: moneyline only
		HomeTeam: "Alcaraz",
		AwayTeam: "Sinner",
		Markets: []models.RawMarket{
			{Name: "Over/Under Sets", Runners: []models.RawRunner{
				{Selection: "Over", Price: "-110", Line: &line},
				{Selection: "Under", Price: "-110", Line: &line},
			}},
		},
	}
	out, _ := f.Flatten(p, nil)
	if out.Total != nil {
		t.Error("tennis taxonomy does not define totals; field must stay unset")
	}
}

func TestFlatten_DedupSuppressesRepeatedCategory(t *testing.T) {
	f := New(nil)
	seen := identity.NewSeenSet()
	p := lakersPayload()

	first, _ := f.Flatten(p, seen)
	if first.MoneylineHome == nil {
		t.Fatal("first pass should flatten")
	}

	second, stats := f.Flatten(p, seen)
	if second.MoneylineHome != nil {
		t.Error("second pass in the same cycle should be suppressed")
	}
	if stats.DedupSuppressed != 1 {
		t.Errorf("DedupSuppressed = %d, want 1", stats.DedupSuppressed)
	}
}

func TestFlatten_Outright(t *testing.T) {
	f := New(nil)
	p := models.RawPayload{
		Sport:       "golf",
		Competitors: []string{"Scottie Scheffler", "Rory McIlroy"},
		Markets: []models.RawMarket{
			{Name: "Outright Winner", Runners: []models.RawRunner{
				{Selection: "Scottie Scheffler", Price: "+450"},
				{Selection: "Rory McIlroy", Price: "+700"},
			}},
			{Name: "To Win Without Scheffler", Runners: []models.RawRunner{
				{Selection: "Rory McIlroy", Price: "+320"},
			}},
		},
	}
	out, _ := f.Flatten(p, nil)
	if len(out.Competitors) != 2 {
		t.Fatalf("competitors = %d, want 2", len(out.Competitors))
	}
	var rory *models.CompetitorOdds
	for i := range out.Competitors {
		if out.Competitors[i].Name == "Rory McIlroy" {
			rory = &out.Competitors[i]
		}
	}
	if rory == nil {
		t.Fatal("Rory McIlroy missing from competitors")
	}
	if rory.Markets["Outright Winner"] != 700 {
		t.Errorf("outright price = %d, want 700", rory.Markets["Outright Winner"])
	}
	if rory.Markets["To Win Without Scheffler"] != 320 {
		t.Errorf("secondary market price = %d, want 320", rory.Markets["To Win Without Scheffler"])
	}
}

func TestCategoryTable_Classify(t *testing.T) {
	tbl := DefaultCategoryTable()
	tests := []struct {
		name string
		want Category
		ok   bool
	}{
		{"Money", CategoryMoneyline, true},
		{"Win Only", CategoryMoneyline, true},
		{"Handicap", CategorySpread, true},
		{"Asian Handicap", CategorySpread, true},
		{"Over/Under 2.5", CategoryTotal, true},
		{"Total Points", CategoryTotal, true},
		{"First Goalscorer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := tbl.Classify(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
