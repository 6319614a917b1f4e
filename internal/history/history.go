// Package history keeps a SQLite journal of mirror runs and per-job
// outcomes for operator postmortem.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mirrorhq/gitmirror/internal/mirror"
)

// Store wraps the journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			failed INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS job_results (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			job_name TEXT NOT NULL,
			status TEXT NOT NULL,
			detail TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_job_results_run ON job_results(run_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Run is one recorded run.
type Run struct {
	ID       int64
	Started  time.Time
	Finished time.Time
	Failed   bool
}

// JobResult is one job's recorded outcome within a run.
type JobResult struct {
	JobName string
	Status  string
	Detail  string
}

// RecordRun persists one finished run with all of its job outcomes. It
// satisfies mirror.Recorder.
func (s *Store) RecordRun(started, finished time.Time, outcomes []mirror.Outcome) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	failed := 0
	for _, o := range outcomes {
		if o.Status == mirror.StatusFailed {
			failed = 1
			break
		}
	}

	res, err := tx.Exec(
		"INSERT INTO runs (started_at, finished_at, failed) VALUES (?, ?, ?)",
		started.UTC().Format(time.RFC3339), finished.UTC().Format(time.RFC3339), failed,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}

	for _, o := range outcomes {
		detail := ""
		if o.Err != nil {
			detail = o.Err.Error()
		}
		_, err := tx.Exec(
			"INSERT INTO job_results (run_id, job_name, status, detail) VALUES (?, ?, ?, ?)",
			runID, o.Job.Name, o.Status.String(), detail,
		)
		if err != nil {
			return fmt.Errorf("inserting result for %s: %w", o.Job.Name, err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		"SELECT id, started_at, finished_at, failed FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		var failed int
		if err := rows.Scan(&r.ID, &started, &finished, &failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.Started, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if r.Finished, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		r.Failed = failed != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResults returns the per-job outcomes of one run in recorded order.
func (s *Store) RunResults(runID int64) ([]JobResult, error) {
	rows, err := s.db.Query(
		"SELECT job_name, status, detail FROM job_results WHERE run_id = ? ORDER BY rowid",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []JobResult
	for rows.Next() {
		var jr JobResult
		if err := rows.Scan(&jr.JobName, &jr.Status, &jr.Detail); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, jr)
	}
	return results, rows.Err()
}
