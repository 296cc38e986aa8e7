// Command correlate pairs matches from two snapshot files by fuzzy team-name
// similarity and prints the resulting report.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/akulov/oddsgrid/internal/pkg/config"
	"github.com/akulov/oddsgrid/internal/pkg/correlate"
	"github.com/akulov/oddsgrid/internal/pkg/logging"
	"github.com/akulov/oddsgrid/internal/pkg/models"
	"github.com/akulov/oddsgrid/internal/pkg/notify"
	"github.com/akulov/oddsgrid/internal/pkg/snapshot"
	"github.com/akulov/oddsgrid/internal/pkg/teams"
)

func main() {
	var (
		configPath string
		fileA      string
		fileB      string
		asJSON     bool
		telegram   bool
	)
	flag.StringVar(&configPath, "config", "configs/config.yaml", "Path to config file")
	flag.StringVar(&fileA, "a", "", "Snapshot file for source A")
	flag.StringVar(&fileB, "b", "", "Snapshot file for source B")
	flag.BoolVar(&asJSON, "json", false, "Print the full report as JSON")
	flag.BoolVar(&telegram, "telegram", false, "Send the report to the configured Telegram chat")
	flag.Parse()

	if fileA == "" || fileB == "" {
		log.Fatal("Both -a and -b snapshot files are required")
	}

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if _, err := logging.Setup(logging.Options{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Service: "correlate",
	}); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	matchesA, sourceA, err := loadMatches(fileA)
	if err != nil {
		log.Fatalf("Failed to load snapshot A: %v", err)
	}
	matchesB, sourceB, err := loadMatches(fileB)
	if err != nil {
		log.Fatalf("Failed to load snapshot B: %v", err)
	}

	norm, err := loadNormalizer(cfg.AliasFile)
	if err != nil {
		log.Fatalf("Failed to load team aliases: %v", err)
	}

	corr := correlate.New(nil, cfg.Correlate.Threshold, norm)
	report := corr.Run(sourceA, sourceB, matchesA, matchesB)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
	} else {
		printReport(report)
	}

	if telegram {
		notifier := notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if notifier == nil {
			log.Fatal("Telegram notifier unavailable")
		}
		if err := notifier.SendCorrelationReport(report); err != nil {
			log.Fatalf("Failed to send report: %v", err)
		}
	}
}

// loadMatches reads one snapshot and names its dominant source, falling back
// to the file path when the snapshot mixes sources.
func loadMatches(path string) ([]models.CanonicalMatch, string, error) {
	doc, err := snapshot.Load(path)
	if err != nil {
		return nil, "", err
	}

	source := path
	best := 0
	for name, n := range doc.Counts.BySource {
		if n > best {
			source, best = name, n
		}
	}
	return doc.Matches, source, nil
}

func loadNormalizer(path string) (*teams.Normalizer, error) {
	if path == "" {
		return teams.NewNormalizer(teams.BuiltinAliases()), nil
	}
	return teams.LoadNormalizer(path)
}

func printReport(r *correlate.Report) {
	fmt.Printf("Correlation %s vs %s: %d/%d matched (%.1f%%)\n",
		r.SourceA, r.SourceB, r.Matched, r.TotalA, r.MatchRate)
	for _, c := range r.Comparisons {
		if !c.Accepted {
			continue
		}
		fmt.Printf("  %.3f  %s  <->  %s\n", c.Similarity, c.MatchA.MatchID, c.MatchB.MatchID)
	}
	for _, line := range r.Insights {
		fmt.Println(line)
	}
}
