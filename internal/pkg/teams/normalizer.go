// Package teams canonicalizes team display names through a layered,
// deterministic alias lookup. Every stage is a map access or bounded by the
// input's word count; there is no linear scan over the alias table.
package teams

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Alias maps one display-name variant to its canonical team name,
// optionally scoped to a sport and league.
type Alias struct {
	Alias     string `yaml:"alias"`
	Canonical string `yaml:"canonical"`
	Sport     string `yaml:"sport,omitempty"`
	League    string `yaml:"league,omitempty"`
}

// clubTokens are club-form words stripped when comparing team names, so
// "FC Barcelona" and "Barcelona" land on the same canonical form. Only
// stripped while at least one word remains.
var clubTokens = map[string]struct{}{
	"fc": {}, "cf": {}, "afc": {}, "ac": {}, "as": {}, "sc": {}, "ssc": {},
	"rc": {}, "cd": {}, "ud": {}, "nk": {}, "fk": {}, "bk": {}, "bc": {},
	"kv": {}, "ksk": {}, "if": {}, "sk": {},
}

// Normalizer resolves display names through layered indexes built once at
// load time. Read-only after construction, safe for concurrent use.
type Normalizer struct {
	exact   map[string]string // cleaned alias -> canonical
	noPunct map[string]string // punctuation-stripped alias -> canonical
	noSpace map[string]string // space-removed alias -> canonical
	nick    map[string]string // "sport|league|lastword" -> canonical
}

// NewNormalizer builds the lookup indexes from an alias list. Later entries
// never displace earlier ones, keeping resolution order-stable.
func NewNormalizer(aliases []Alias) *Normalizer {
	n := &Normalizer{
		exact:   make(map[string]string, 2*len(aliases)),
		noPunct: make(map[string]string, 2*len(aliases)),
		noSpace: make(map[string]string, 2*len(aliases)),
		nick:    make(map[string]string, len(aliases)),
	}
	for _, a := range aliases {
		n.index(a)
	}
	return n
}

func (n *Normalizer) index(a Alias) {
	canonical := strings.TrimSpace(a.Canonical)
	if canonical == "" {
		return
	}
	// The canonical name resolves to itself, so sources that already use it
	// pass through every stage unchanged.
	for _, variant := range []string{a.Alias, canonical} {
		clean := Clean(variant)
		if clean == "" {
			continue
		}
		setIfAbsent(n.exact, clean, canonical)
		setIfAbsent(n.noPunct, stripPunct(clean), canonical)
		setIfAbsent(n.noSpace, removeSpaces(stripPunct(clean)), canonical)
	}

	words := strings.Fields(Clean(canonical))
	if len(words) < 2 {
		return // single-word names are their own nickname
	}
	last := words[len(words)-1]
	setIfAbsent(n.nick, nickKey(a.Sport, a.League, last), canonical)
	if a.League != "" {
		// also register under sport alone so a league-less lookup still hits
		setIfAbsent(n.nick, nickKey(a.Sport, "", last), canonical)
	}
}

func setIfAbsent(m map[string]string, key, val string) {
	if key == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = val
	}
}

func nickKey(sport, league, word string) string {
	return strings.ToLower(sport) + "|" + strings.ToLower(league) + "|" + word
}

// Normalize resolves a display name to its canonical team name. Stages, in
// order: exact lowercase match, punctuation-stripped match, space-removed
// match, last-word nickname match scoped to sport/league, then a bounded
// sub-phrase fallback. No stage matching returns the input unchanged.
func (n *Normalizer) Normalize(name, sport, league string) string {
	clean := Clean(name)
	if clean == "" {
		return name
	}

	if canonical, ok := n.exact[clean]; ok {
		return canonical
	}
	if canonical, ok := n.noPunct[stripPunct(clean)]; ok {
		return canonical
	}
	if canonical, ok := n.noSpace[removeSpaces(stripPunct(clean))]; ok {
		return canonical
	}

	words := strings.Fields(clean)
	last := words[len(words)-1]
	for _, key := range []string{
		nickKey(sport, league, last),
		nickKey(sport, "", last),
		nickKey("", "", last),
	} {
		if canonical, ok := n.nick[key]; ok {
			return canonical
		}
	}

	if canonical, ok := n.subPhrase(words); ok {
		return canonical
	}
	return name
}

// subPhrase tries contiguous word windows (widest first, max 3 words)
// against the exact index. Catches names wrapped in club furniture the
// alias table knows the core of, e.g. "Real Madrid CF" -> "Real Madrid".
func (n *Normalizer) subPhrase(words []string) (string, bool) {
	width := len(words) - 1
	if width > 3 {
		width = 3
	}
	for ; width >= 1; width-- {
		for start := 0; start+width <= len(words); start++ {
			phrase := strings.Join(words[start:start+width], " ")
			if canonical, ok := n.exact[phrase]; ok {
				return canonical, true
			}
		}
	}
	return "", false
}

// Comparable returns the form used for cross-source fuzzy comparison:
// alias resolution first, then club tokens stripped. Deterministic for a
// loaded table.
func (n *Normalizer) Comparable(name, sport, league string) string {
	return StripClubTokens(Clean(n.Normalize(name, sport, league)))
}

// Clean lowercases, strips diacritics and collapses internal whitespace.
func Clean(s string) string {
	s = stripDiacritics(s)
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// StripClubTokens removes club-form words ("fc", "cf", ...) from an
// already-cleaned name, keeping at least one word.
func StripClubTokens(clean string) string {
	words := strings.Fields(clean)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if _, drop := clubTokens[strings.Trim(w, ".")]; drop {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return clean
	}
	return strings.Join(kept, " ")
}

func stripDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if !unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripPunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func removeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
