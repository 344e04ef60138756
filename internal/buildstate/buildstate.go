// Package buildstate persists per-page output fingerprints between runs so
// rebuilds can skip rewriting unchanged files, plus a run history for
// inspection.
package buildstate

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed build-state store.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens a build-state database.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS fingerprints (
		pipeline TEXT NOT NULL,
		output_path TEXT NOT NULL,
		hash TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (pipeline, output_path)
	);
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		outcome TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Fingerprint returns the stored hash for a pipeline's output path.
func (s *Store) Fingerprint(ctx context.Context, pipeline, outputPath string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT hash FROM fingerprints WHERE pipeline = ? AND output_path = ?`,
		pipeline, outputPath).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query fingerprint: %w", err)
	}
	return hash, true, nil
}

// SetFingerprint upserts the hash for a pipeline's output path.
func (s *Store) SetFingerprint(ctx context.Context, pipeline, outputPath, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fingerprints (pipeline, output_path, hash, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(pipeline, output_path) DO UPDATE SET hash = excluded.hash, updated_at = excluded.updated_at`,
		pipeline, outputPath, hash, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert fingerprint: %w", err)
	}
	return nil
}

// RecordRun appends one row of run history.
func (s *Store) RecordRun(ctx context.Context, runID string, startedAt time.Time, duration time.Duration, pages int, outcome string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, duration_ms, pages, outcome) VALUES (?, ?, ?, ?, ?)`,
		runID, startedAt.Unix(), duration.Milliseconds(), pages, outcome)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Hash fingerprints rendered output bytes.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
