package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akulov/oddsgrid/internal/pkg/models"
)

func sampleMatches() []models.CanonicalMatch {
	home := -150
	return []models.CanonicalMatch{
		{
			MatchID:   "barcelona:real_madrid:20250302:2000",
			Sport:     "football",
			HomeTeam:  "Barcelona",
			AwayTeam:  "Real Madrid",
			League:    "La Liga",
			StartTime: time.Date(2025, 3, 2, 20, 0, 0, 0, time.UTC),
			Status:    models.StatusUpcoming,
			Odds:      models.CanonicalOdds{MoneylineHome: &home},
			Source:    models.SourceMeta{SourceName: "bookie_a", LastUpdated: time.Now().UTC()},
		},
		{
			MatchID: "lakers:warriors:20250105:1930",
			Sport:   "basketball",
			Status:  models.StatusFinished,
			Source:  models.SourceMeta{SourceName: "bookie_b"},
		},
	}
}

func TestFileWriter_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "matches.json")
	w, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter: %v", err)
	}

	doc := NewDocument("run-1", 3, 2, sampleMatches())
	if err := w.WriteSnapshot(context.Background(), doc); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.RunID != "run-1" || loaded.Cycle != 3 {
		t.Errorf("metadata round trip: %+v", loaded)
	}
	if loaded.Counts.Total != 2 || loaded.Counts.Errors != 2 {
		t.Errorf("counts = %+v", loaded.Counts)
	}
	if loaded.Counts.BySport["football"] != 1 || loaded.Counts.BySource["bookie_b"] != 1 {
		t.Errorf("count breakdowns = %+v", loaded.Counts)
	}
	if len(loaded.Matches) != 2 {
		t.Fatalf("matches = %d", len(loaded.Matches))
	}
	if *loaded.Matches[0].Odds.MoneylineHome != -150 {
		t.Errorf("odds did not survive round trip")
	}
}

func TestFileWriter_ReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	w, _ := NewFileWriter(path)

	first := NewDocument("run-1", 1, 0, sampleMatches())
	if err := w.WriteSnapshot(context.Background(), first); err != nil {
		t.Fatal(err)
	}

	second := NewDocument("run-1", 2, 0, sampleMatches()[:1])
	if err := w.WriteSnapshot(context.Background(), second); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after replace: %v", err)
	}
	if loaded.Cycle != 2 || len(loaded.Matches) != 1 {
		t.Errorf("expected second snapshot, got cycle=%d matches=%d", loaded.Cycle, len(loaded.Matches))
	}
}

// A crash between writing the temp file and renaming it must leave the
// previous snapshot readable. Simulated by dropping an orphan temp file
// next to a good snapshot.
func TestFileWriter_KilledBeforeRenameKeepsOldSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "matches.json")
	w, _ := NewFileWriter(path)

	good := NewDocument("run-1", 1, 0, sampleMatches())
	if err := w.WriteSnapshot(context.Background(), good); err != nil {
		t.Fatal(err)
	}

	// the "crashed" writer got as far as a partial temp file
	orphan := filepath.Join(dir, ".snapshot-crashed.json")
	if err := os.WriteFile(orphan, []byte(`{"run_id":"run-1","cyc`), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("previous snapshot should still load: %v", err)
	}
	if loaded.Cycle != 1 || len(loaded.Matches) != 2 {
		t.Errorf("previous snapshot corrupted: cycle=%d matches=%d", loaded.Cycle, len(loaded.Matches))
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}

func TestNewFileWriter_EmptyPath(t *testing.T) {
	if _, err := NewFileWriter(""); err == nil {
		t.Error("expected error for empty path")
	}
}
