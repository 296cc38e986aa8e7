package flatten

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/akulov/oddsgrid/internal/pkg/taxonomy"
)

// Category is the canonical market category a raw market name classifies to.
type Category string

const (
	CategoryMoneyline Category = "moneyline"
	CategorySpread    Category = "spread"
	CategoryTotal     Category = "total"
	CategoryOutright  Category = "outright"
)

// fieldGroup maps a category onto the taxonomy group that gates it.
func (c Category) fieldGroup() taxonomy.FieldGroup {
	switch c {
	case CategoryMoneyline:
		return taxonomy.GroupMoneyline
	case CategorySpread:
		return taxonomy.GroupSpread
	case CategoryTotal:
		return taxonomy.GroupTotal
	case CategoryOutright:
		return taxonomy.GroupOutright
	}
	return ""
}

// CategoryRule maps a market-name fragment to a category. Matching is
// case-insensitive substring containment.
type CategoryRule struct {
	Pattern  string   `yaml:"pattern"`
	Category Category `yaml:"category"`
}

// CategoryTable classifies raw market names. Rules are checked in order;
// the first containment wins, so more specific patterns go first.
type CategoryTable struct {
	rules []CategoryRule
}

// NewCategoryTable builds a table from explicit rules.
func NewCategoryTable(rules []CategoryRule) *CategoryTable {
	return &CategoryTable{rules: rules}
}

// DefaultCategoryTable covers the market names the supported sources use.
func DefaultCategoryTable() *CategoryTable {
	return NewCategoryTable([]CategoryRule{
		{Pattern: "money", Category: CategoryMoneyline},
		{Pattern: "win only", Category: CategoryMoneyline},
		{Pattern: "match winner", Category: CategoryMoneyline},
		{Pattern: "1x2", Category: CategoryMoneyline},
		{Pattern: "handicap", Category: CategorySpread},
		{Pattern: "spread", Category: CategorySpread},
		{Pattern: "run line", Category: CategorySpread},
		{Pattern: "puck line", Category: CategorySpread},
		{Pattern: "over/under", Category: CategoryTotal},
		{Pattern: "over under", Category: CategoryTotal},
		{Pattern: "total", Category: CategoryTotal},
		{Pattern: "outright", Category: CategoryOutright},
		{Pattern: "to win", Category: CategoryOutright},
	})
}

type categoryFile struct {
	Markets []CategoryRule `yaml:"markets"`
}

// LoadCategoryTable reads category rules from a YAML file, falling back to
// the defaults when path is empty.
func LoadCategoryTable(path string) (*CategoryTable, error) {
	if path == "" {
		return DefaultCategoryTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read market table: %w", err)
	}
	var f categoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse market table: %w", err)
	}
	if len(f.Markets) == 0 {
		return nil, fmt.Errorf("market table %s has no rules", path)
	}
	return NewCategoryTable(f.Markets), nil
}

// Classify maps a raw market name to its category. The second return is
// false for names outside the table, which callers silently skip.
func (t *CategoryTable) Classify(marketName string) (Category, bool) {
	name := strings.ToLower(strings.TrimSpace(marketName))
	if name == "" {
		return "", false
	}
	for _, r := range t.rules {
		if strings.Contains(name, strings.ToLower(r.Pattern)) {
			return r.Category, true
		}
	}
	return "", false
}
