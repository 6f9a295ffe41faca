// Package journal keeps a local, append-only history of the learner's
// activity: code entries, step moves, and tutor requests. The remote
// store stays the authority for progress; the journal exists for the
// history command and for debugging, and every write is best-effort.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Journal is an append-only activity log backed by SQLite.
type Journal struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies recommended
// pragmas and creates the tables when missing.
func Open(dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS code_entries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	page_slug  TEXT NOT NULL,
	step_name  TEXT NOT NULL,
	source     TEXT NOT NULL,
	input      TEXT NOT NULL,
	timestamp  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_code_entries_session ON code_entries (session_id);
CREATE INDEX IF NOT EXISTS idx_code_entries_timestamp ON code_entries (timestamp);

CREATE TABLE IF NOT EXISTS step_moves (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	page_slug  TEXT NOT NULL,
	from_step  TEXT NOT NULL,
	to_step    TEXT NOT NULL,
	timestamp  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_step_moves_session ON step_moves (session_id);

CREATE TABLE IF NOT EXISTS tutor_requests (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms    INTEGER NOT NULL DEFAULT 0,
	success       INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	timestamp     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// CodeEntry is one submission of learner code.
type CodeEntry struct {
	ID        int64
	SessionID string
	PageSlug  string
	StepName  string
	Source    string
	Input     string
	Timestamp time.Time
}

// StepMove is one navigation between steps.
type StepMove struct {
	ID        int64
	SessionID string
	PageSlug  string
	FromStep  string
	ToStep    string
	Timestamp time.Time
}

// TutorRequest records one tutor hint generation.
type TutorRequest struct {
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RecordCodeEntry appends a code entry.
func (j *Journal) RecordCodeEntry(ctx context.Context, e CodeEntry) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO code_entries (session_id, page_slug, step_name, source, input) VALUES (?, ?, ?, ?, ?)`,
		e.SessionID, e.PageSlug, e.StepName, e.Source, e.Input)
	if err != nil {
		return fmt.Errorf("record code entry: %w", err)
	}
	return nil
}

// RecordStepMove appends a step move.
func (j *Journal) RecordStepMove(ctx context.Context, m StepMove) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO step_moves (session_id, page_slug, from_step, to_step) VALUES (?, ?, ?, ?)`,
		m.SessionID, m.PageSlug, m.FromStep, m.ToStep)
	if err != nil {
		return fmt.Errorf("record step move: %w", err)
	}
	return nil
}

// RecordTutorRequest appends a tutor request.
func (j *Journal) RecordTutorRequest(ctx context.Context, r TutorRequest) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO tutor_requests (provider, model, input_tokens, output_tokens, latency_ms, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Provider, r.Model, r.InputTokens, r.OutputTokens, r.LatencyMs, r.Success, r.ErrorMessage)
	if err != nil {
		return fmt.Errorf("record tutor request: %w", err)
	}
	return nil
}

// RecentCodeEntries returns the newest entries, most recent first.
func (j *Journal) RecentCodeEntries(ctx context.Context, limit int) ([]CodeEntry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, session_id, page_slug, step_name, source, input, timestamp
		 FROM code_entries ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query code entries: %w", err)
	}
	defer rows.Close()

	var out []CodeEntry
	for rows.Next() {
		var e CodeEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.PageSlug, &e.StepName, &e.Source, &e.Input, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan code entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultPath resolves the database file path in priority order:
// 1. STEPCODER_DB environment variable
// 2. $XDG_DATA_HOME/stepcoder/stepcoder.db
// 3. ~/.local/share/stepcoder/stepcoder.db
func DefaultPath() (string, error) {
	if p := os.Getenv("STEPCODER_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "stepcoder", "stepcoder.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
