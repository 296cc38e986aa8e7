package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
ingest:
  interval: 30s
  workers: 4
  fetch_timeout: 10s
sources:
  - name: bookie_a
    kind: http
    url: https://example.com/odds.json
    region: eu
  - name: bookie_b
    kind: browser
    url: https://example.com/live
    selector: "window.__ODDS__"
snapshot:
  path: /tmp/snap.json
  per_match: true
correlate:
  threshold: 0.8
retention:
  max_missed_cycles: 3
  drop_finished_after: 24h
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ingest.Interval != 30*time.Second || cfg.Ingest.Workers != 4 {
		t.Errorf("ingest config = %+v", cfg.Ingest)
	}
	if len(cfg.Sources) != 2 || cfg.Sources[1].Kind != "browser" {
		t.Errorf("sources = %+v", cfg.Sources)
	}
	if !cfg.Snapshot.PerMatch {
		t.Error("per_match not parsed")
	}
	if cfg.Correlate.Threshold != 0.8 {
		t.Errorf("threshold = %v", cfg.Correlate.Threshold)
	}
	if cfg.Retention.MaxMissedCycles != 3 || cfg.Retention.DropFinishedAfter != 24*time.Hour {
		t.Errorf("retention = %+v", cfg.Retention)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ingest.Interval != time.Minute || cfg.Ingest.Workers != 8 {
		t.Errorf("defaults not applied: %+v", cfg.Ingest)
	}
	if cfg.Correlate.Threshold != 0.75 {
		t.Errorf("default threshold = %v", cfg.Correlate.Threshold)
	}
	if cfg.Retention.Enabled() {
		t.Error("retention should be disabled by default")
	}
}

func TestLoad_RejectsBadSource(t *testing.T) {
	_, err := Load(writeConfig(t, `
sources:
  - name: broken
    kind: carrier_pigeon
    url: https://example.com
`))
	if err == nil {
		t.Error("expected error for unknown source kind")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing config")
	}
}
