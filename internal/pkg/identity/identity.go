// Package identity derives the stable cross-source match identifier and the
// ephemeral intra-cycle dedup key.
package identity

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ErrIdentityAmbiguous is returned when a payload is missing the team names
// needed to build a stable identifier.
var ErrIdentityAmbiguous = errors.New("identity: missing team names")

// maxKeyPartLen bounds each normalized team component of the match id.
const maxKeyPartLen = 48

// Missing kickoff information maps to fixed sentinels rather than "now" so
// re-running over the same payload always produces the same id.
const (
	sentinelDate = "00000000"
	sentinelTime = "0000"
)

// sentinelField fills the away slot of a multi-entrant event id: an
// outright has one primary competitor against "the field".
const sentinelField = "field"

// NormalizeKeyPart lowercases a team name, strips everything that is not a
// letter or digit, collapses word gaps to single underscores and truncates
// to a bounded length.
func NormalizeKeyPart(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingGap := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingGap && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingGap = false
			b.WriteRune(r)
		default:
			pendingGap = true
		}
	}
	out := b.String()
	if len(out) > maxKeyPartLen {
		// cut on a rune boundary so the id stays valid UTF-8
		cut := maxKeyPartLen
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = strings.TrimRight(out[:cut], "_")
	}
	return out
}

// MatchID builds the stable match identifier
// "home:away:YYYYMMDD:HHMM" from already-canonicalized team names and the
// scheduled kickoff. It is a pure function of its inputs: the same match
// observed by any process at any time yields the same id.
func MatchID(homeTeam, awayTeam string, startTime time.Time) (string, error) {
	home := NormalizeKeyPart(homeTeam)
	away := NormalizeKeyPart(awayTeam)
	if home == "" || away == "" {
		return "", ErrIdentityAmbiguous
	}

	date, clock := sentinelDate, sentinelTime
	if !startTime.IsZero() {
		utc := startTime.UTC()
		date = utc.Format("20060102")
		clock = utc.Format("1504")
	}
	return home + ":" + away + ":" + date + ":" + clock, nil
}

// OutrightID builds the identifier for a multi-entrant event
// "primary:field:YYYYMMDD:HHMM" from its primary competitor, with the
// fixed field sentinel in the away slot.
func OutrightID(primary string, startTime time.Time) (string, error) {
	return MatchID(primary, sentinelField, startTime)
}

// DedupKey identifies one flattening unit within a single payload scan:
// a source fixture, one market category, one region. Never persisted.
type DedupKey struct {
	FixtureID string
	Category  string
	Region    string
}

// SeenSet suppresses re-processing of records already flattened in the
// current cycle. Create one per cycle and drop it at cycle end.
type SeenSet struct {
	seen map[DedupKey]struct{}
}

// NewSeenSet returns an empty per-cycle dedup set.
func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[DedupKey]struct{})}
}

// Seen marks the key and reports whether it had been marked before.
// The first caller for a key gets false, every later caller true.
func (s *SeenSet) Seen(key DedupKey) bool {
	if _, ok := s.seen[key]; ok {
		return true
	}
	s.seen[key] = struct{}{}
	return false
}

// Len returns the number of distinct keys marked so far.
func (s *SeenSet) Len() int {
	return len(s.seen)
}
