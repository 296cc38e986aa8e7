// Package snapshot persists the match store as a self-contained document.
// The file writer replaces the destination atomically, so a concurrent
// reader always sees either the previous complete snapshot or the new one.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akulov/oddsgrid/internal/pkg/models"
)

// Counts summarizes one snapshot's contents.
type Counts struct {
	Total    int            `json:"total"`
	BySport  map[string]int `json:"by_sport,omitempty"`
	BySource map[string]int `json:"by_source,omitempty"`
	Errors   int            `json:"errors"`
}

// Document is the produced snapshot: run metadata plus every canonical
// match. Always fully valid when openable.
type Document struct {
	RunID     string                  `json:"run_id"`
	Timestamp time.Time               `json:"timestamp"`
	Cycle     uint64                  `json:"cycle"`
	Counts    Counts                  `json:"counts"`
	Matches   []models.CanonicalMatch `json:"matches"`
}

// NewDocument assembles a document from exported matches.
func NewDocument(runID string, cycle uint64, errorsSeen int, matches []models.CanonicalMatch) *Document {
	counts := Counts{
		Total:    len(matches),
		BySport:  make(map[string]int),
		BySource: make(map[string]int),
		Errors:   errorsSeen,
	}
	for _, m := range matches {
		counts.BySport[m.Sport]++
		counts.BySource[m.Source.SourceName]++
	}
	return &Document{
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Cycle:     cycle,
		Counts:    counts,
		Matches:   matches,
	}
}

// Storage persists snapshot documents. Implemented by the file writer and
// the Postgres storage.
type Storage interface {
	WriteSnapshot(ctx context.Context, doc *Document) error
	Close() error
}

// FileWriter writes snapshots to a single JSON file via temp-file rename.
type FileWriter struct {
	path string
}

// NewFileWriter creates a writer targeting path. The parent directory is
// created if missing.
func NewFileWriter(path string) (*FileWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &FileWriter{path: path}, nil
}

// WriteSnapshot serializes the document to a temp file in the destination
// directory, fsyncs it, then renames it over the destination. A crash at
// any point leaves the previous snapshot intact.
func (w *FileWriter) WriteSnapshot(_ context.Context, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Close is a no-op for the file writer.
func (w *FileWriter) Close() error { return nil }

// Load reads a snapshot document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &doc, nil
}
