// Package storage provides SQLite persistence for learning records and
// reconciliation run history.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eshaffer321/bankrecon/internal/domain/learning"
)

// Storage provides SQLite database access.
// It implements the learning.Store interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements learning.Store
var _ learning.Store = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Load retrieves the learning record for an identity. A missing record is
// not an error; callers get (nil, nil) and start fresh.
func (s *Storage) Load(identity string) (*learning.Record, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT record_json FROM learning_records WHERE identity = ?`,
		identity,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record learning.Record
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("corrupt learning record for %q: %w", identity, err)
	}
	return &record, nil
}

// Save upserts the learning record for an identity.
func (s *Storage) Save(identity string, record *learning.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO learning_records (identity, record_json, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(identity) DO UPDATE SET
			record_json = excluded.record_json,
			updated_at = CURRENT_TIMESTAMP
	`, identity, string(payload))
	return err
}

// StartRun records the start of a reconciliation run
func (s *Storage) StartRun(bankFile, glFile string) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO reconciliation_runs (bank_file, gl_file, status)
		VALUES (?, ?, 'running')
	`, bankFile, glFile)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CompleteRun records the completion of a reconciliation run
func (s *Storage) CompleteRun(runID int64, bankCount, glCount, matched, unmatchedBank, unmatchedGL int) error {
	_, err := s.db.Exec(`
		UPDATE reconciliation_runs
		SET completed_at = CURRENT_TIMESTAMP,
		    bank_count = ?,
		    gl_count = ?,
		    matched_count = ?,
		    unmatched_bank_count = ?,
		    unmatched_gl_count = ?,
		    status = 'completed'
		WHERE id = ?
	`, bankCount, glCount, matched, unmatchedBank, unmatchedGL, runID)
	return err
}

// RunSummary is one row of reconciliation run history.
type RunSummary struct {
	ID            int64
	BankFile      string
	GLFile        string
	Status        string
	MatchedCount  int
	UnmatchedBank int
	UnmatchedGL   int
}

// RecentRuns returns the most recent reconciliation runs, newest first.
func (s *Storage) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(`
		SELECT id, bank_file, gl_file, status,
		       COALESCE(matched_count, 0),
		       COALESCE(unmatched_bank_count, 0),
		       COALESCE(unmatched_gl_count, 0)
		FROM reconciliation_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(
			&run.ID,
			&run.BankFile,
			&run.GLFile,
			&run.Status,
			&run.MatchedCount,
			&run.UnmatchedBank,
			&run.UnmatchedGL,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
