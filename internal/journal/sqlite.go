// Package journal stores scan runs and deletions in SQLite.
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"dupcheck/internal/dupes"
	"dupcheck/internal/journal/migrations"
)

// FileName is the journal database inside the configured data directory.
const FileName = "journal.db"

// SQLiteJournal implements dupes.Journal.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

// NewSQLiteJournal opens or creates the journal at path and migrates it.
// path can be ":memory:".
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	return &SQLiteJournal{db: db, path: path}, nil
}

// OpenConnection opens a SQLite connection with foreign keys enabled.
// An in-memory database is pinned to a single connection so every query
// sees the same data.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return db, nil
}

// Path returns the database location.
func (j *SQLiteJournal) Path() string {
	return j.path
}

func (j *SQLiteJournal) RecordScanStarted(run *dupes.ScanRun) error {
	_, err := j.db.Exec(
		`INSERT INTO scan_runs (id, root, algorithm, verified, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.Algorithm, run.Verified, string(run.Status), run.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting scan run %s: %w", run.ID, err)
	}
	return nil
}

func (j *SQLiteJournal) RecordScanEnded(run *dupes.ScanRun) error {
	s := run.Summary
	res, err := j.db.Exec(
		`UPDATE scan_runs
		 SET status = ?, finished_at = ?, files = ?, hashed = ?, skipped = ?,
		     groups_found = ?, candidates = ?, reclaimable_bytes = ?
		 WHERE id = ?`,
		string(run.Status), run.FinishedAt.UTC(), s.Files, s.Hashed, s.Skipped,
		s.Groups, s.Candidates, s.ReclaimableBytes, run.ID,
	)
	if err != nil {
		return fmt.Errorf("updating scan run %s: %w", run.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("scan run %s not found", run.ID)
	}
	return nil
}

func (j *SQLiteJournal) RecordDeletion(d *dupes.Deletion) error {
	var runID sql.NullString
	if d.RunID != "" {
		runID = sql.NullString{String: d.RunID, Valid: true}
	}
	_, err := j.db.Exec(
		`INSERT INTO deletions (run_id, path, deleted_at, error) VALUES (?, ?, ?, ?)`,
		runID, d.Path, d.DeletedAt.UTC(), d.Err,
	)
	if err != nil {
		return fmt.Errorf("inserting deletion of %s: %w", d.Path, err)
	}
	return nil
}

func (j *SQLiteJournal) RecentScanRuns(limit int) ([]*dupes.ScanRun, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := j.db.Query(
		`SELECT id, root, algorithm, verified, status, started_at, finished_at,
		        files, hashed, skipped, groups_found, candidates, reclaimable_bytes
		 FROM scan_runs
		 ORDER BY started_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying scan runs: %w", err)
	}
	defer rows.Close()

	var runs []*dupes.ScanRun
	for rows.Next() {
		var (
			run      dupes.ScanRun
			status   string
			finished sql.NullTime
		)
		err := rows.Scan(&run.ID, &run.Root, &run.Algorithm, &run.Verified, &status, &run.StartedAt, &finished,
			&run.Summary.Files, &run.Summary.Hashed, &run.Summary.Skipped, &run.Summary.Groups,
			&run.Summary.Candidates, &run.Summary.ReclaimableBytes)
		if err != nil {
			return nil, fmt.Errorf("scanning scan run: %w", err)
		}
		run.Status = dupes.RunStatus(status)
		if finished.Valid {
			run.FinishedAt = finished.Time
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scan runs: %w", err)
	}
	return runs, nil
}

// DeletionsForRun returns the deletions recorded against a run, oldest first.
func (j *SQLiteJournal) DeletionsForRun(runID string) ([]*dupes.Deletion, error) {
	rows, err := j.db.Query(
		`SELECT run_id, path, deleted_at, error FROM deletions WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying deletions: %w", err)
	}
	defer rows.Close()

	var out []*dupes.Deletion
	for rows.Next() {
		var d dupes.Deletion
		if err := rows.Scan(&d.RunID, &d.Path, &d.DeletedAt, &d.Err); err != nil {
			return nil, fmt.Errorf("scanning deletion: %w", err)
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

var _ dupes.Journal = (*SQLiteJournal)(nil)
