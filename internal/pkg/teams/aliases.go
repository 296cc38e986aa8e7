package teams

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type aliasFile struct {
	Aliases []Alias `yaml:"aliases"`
}

// LoadAliases reads an alias table from a YAML file. The table is loaded
// once at startup and treated as read-only for the rest of the run.
func LoadAliases(path string) ([]Alias, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}
	return f.Aliases, nil
}

// LoadNormalizer builds a Normalizer from a YAML alias file, prepending the
// built-in aliases. An empty path yields the built-in table alone.
func LoadNormalizer(path string) (*Normalizer, error) {
	aliases := BuiltinAliases()
	if path != "" {
		loaded, err := LoadAliases(path)
		if err != nil {
			return nil, err
		}
		aliases = append(aliases, loaded...)
	}
	return NewNormalizer(aliases), nil
}

// BuiltinAliases is the default alias set shipped with the binary. A config
// file extends it; it never needs to be complete because every normalizer
// stage degrades to returning the name unchanged.
func BuiltinAliases() []Alias {
	return []Alias{
		// NBA
		{Alias: "LA Lakers", Canonical: "Los Angeles Lakers", Sport: "basketball", League: "NBA"},
		{Alias: "L.A. Lakers", Canonical: "Los Angeles Lakers", Sport: "basketball", League: "NBA"},
		{Alias: "GS Warriors", Canonical: "Golden State Warriors", Sport: "basketball", League: "NBA"},
		{Alias: "LA Clippers", Canonical: "Los Angeles Clippers", Sport: "basketball", League: "NBA"},
		{Alias: "NY Knicks", Canonical: "New York Knicks", Sport: "basketball", League: "NBA"},
		{Alias: "SA Spurs", Canonical: "San Antonio Spurs", Sport: "basketball", League: "NBA"},
		{Alias: "OKC Thunder", Canonical: "Oklahoma City Thunder", Sport: "basketball", League: "NBA"},

		// Premier League
		{Alias: "Man United", Canonical: "Manchester United", Sport: "football", League: "Premier League"},
		{Alias: "Man Utd", Canonical: "Manchester United", Sport: "football", League: "Premier League"},
		{Alias: "Man City", Canonical: "Manchester City", Sport: "football", League: "Premier League"},
		{Alias: "Spurs", Canonical: "Tottenham Hotspur", Sport: "football", League: "Premier League"},
		{Alias: "Tottenham", Canonical: "Tottenham Hotspur", Sport: "football", League: "Premier League"},
		{Alias: "Wolves", Canonical: "Wolverhampton Wanderers", Sport: "football", League: "Premier League"},
		{Alias: "Newcastle", Canonical: "Newcastle United", Sport: "football", League: "Premier League"},
		{Alias: "Nottm Forest", Canonical: "Nottingham Forest", Sport: "football", League: "Premier League"},

		// La Liga
		{Alias: "FC Barcelona", Canonical: "Barcelona", Sport: "football", League: "La Liga"},
		{Alias: "Barca", Canonical: "Barcelona", Sport: "football", League: "La Liga"},
		{Alias: "Real Madrid CF", Canonical: "Real Madrid", Sport: "football", League: "La Liga"},
		{Alias: "Atletico Madrid", Canonical: "Atletico de Madrid", Sport: "football", League: "La Liga"},
		{Alias: "Atl Madrid", Canonical: "Atletico de Madrid", Sport: "football", League: "La Liga"},
		{Alias: "Athletic Bilbao", Canonical: "Athletic Club", Sport: "football", League: "La Liga"},
		{Alias: "Betis", Canonical: "Real Betis", Sport: "football", League: "La Liga"},

		// Bundesliga
		{Alias: "Bayern Munich", Canonical: "Bayern Munchen", Sport: "football", League: "Bundesliga"},
		{Alias: "FC Bayern", Canonical: "Bayern Munchen", Sport: "football", League: "Bundesliga"},
		{Alias: "Dortmund", Canonical: "Borussia Dortmund", Sport: "football", League: "Bundesliga"},
		{Alias: "Gladbach", Canonical: "Borussia Monchengladbach", Sport: "football", League: "Bundesliga"},
		{Alias: "Leverkusen", Canonical: "Bayer Leverkusen", Sport: "football", League: "Bundesliga"},

		// NHL
		{Alias: "TB Lightning", Canonical: "Tampa Bay Lightning", Sport: "hockey", League: "NHL"},
		{Alias: "Vegas Golden Knights", Canonical: "Golden Knights", Sport: "hockey", League: "NHL"},
	}
}
