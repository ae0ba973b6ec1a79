// Package diaglog persists check runs and their diagnostics to a SQLite
// database, so repeated runs over a codebase can be compared and queried
// offline.
package diaglog

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rill-lang/rill/internal/diagnostics"
)

//go:embed schema.sql
var schemaSQL string

// Recorder writes check runs to a SQLite log database.
type Recorder struct {
	db *sql.DB
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID         string
	Manifest   string
	StartedAt  time.Time
	FinishedAt time.Time
	ErrorCount int
	Fatal      string
}

// StoredDiagnostic is one persisted diagnostic, in emission order.
type StoredDiagnostic struct {
	Code     string
	File     string
	Line     int
	Column   int
	Message  string
	Rendered string
}

// Open opens (or creates) the log database at path and applies the schema.
func Open(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening diagnostic log: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing diagnostic log schema: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Close releases the underlying database handle.
func (r *Recorder) Close() error {
	return r.db.Close()
}

// BeginRun registers a new run for the given manifest and returns its ID.
func (r *Recorder) BeginRun(manifest string) (string, error) {
	id := uuid.New().String()
	_, err := r.db.Exec(
		`INSERT INTO runs (id, manifest, started_at) VALUES (?, ?, ?)`,
		id, manifest, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("recording run start: %w", err)
	}
	return id, nil
}

// RecordDiagnostics appends the diagnostics of a run in emission order.
// The whole batch commits in one transaction.
func (r *Recorder) RecordDiagnostics(runID string, diags []diagnostics.Diagnostic) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		`INSERT INTO diagnostics (run_id, seq, code, file, line, col, message, rendered)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, d := range diags {
		if _, err := stmt.Exec(
			runID, i, string(d.Code),
			d.Span.File, d.Span.Line, d.Span.Column,
			d.Message, d.Error(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording diagnostic %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// FinishRun closes out a run with its error count and, when the run was
// aborted, the fatal error text.
func (r *Recorder) FinishRun(runID string, errorCount int, fatal string) error {
	_, err := r.db.Exec(
		`UPDATE runs SET finished_at = ?, error_count = ?, fatal = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), errorCount, fatal, runID,
	)
	if err != nil {
		return fmt.Errorf("recording run end: %w", err)
	}
	return nil
}

// Runs lists all recorded runs, most recent first.
func (r *Recorder) Runs() ([]RunSummary, error) {
	rows, err := r.db.Query(
		`SELECT id, manifest, started_at, COALESCE(finished_at, ''), error_count, fatal
		 FROM runs ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var started, finished string
		if err := rows.Scan(&s.ID, &s.Manifest, &started, &finished, &s.ErrorCount, &s.Fatal); err != nil {
			return nil, err
		}
		s.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished != "" {
			s.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DiagnosticsFor returns the stored diagnostics of one run in emission
// order.
func (r *Recorder) DiagnosticsFor(runID string) ([]StoredDiagnostic, error) {
	rows, err := r.db.Query(
		`SELECT code, file, line, col, message, rendered
		 FROM diagnostics WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredDiagnostic
	for rows.Next() {
		var d StoredDiagnostic
		if err := rows.Scan(&d.Code, &d.File, &d.Line, &d.Column, &d.Message, &d.Rendered); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
