// Package tracestore persists engine event traces to SQLite.
//
// The engine itself is purely in-memory; the trace store is an
// observer hanging off the engine's event sink, used by the CLI to
// record what a run did (evaluations, dirtied and cleaned edges,
// evictions) for later inspection.
package tracestore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/grifola/internal/dcg"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for engine traces.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically; idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open trace database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to trace database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection
	// avoids SQLITE_BUSY under interleaved reads and writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// BeginRun registers a new labelled run and returns its id.
func (s *Store) BeginRun(ctx context.Context, label string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (label) VALUES (?)", label)
	if err != nil {
		return 0, fmt.Errorf("insert run %q: %w", label, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return id, nil
}

// WriteEvent appends one engine event to a run.
func (s *Store) WriteEvent(ctx context.Context, runID int64, ev dcg.Event) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (run_id, seq, kind, node_id, detail) VALUES (?, ?, ?, ?, ?)",
		runID, ev.Seq, ev.Kind, ev.NodeID, ev.Detail)
	if err != nil {
		return fmt.Errorf("write event seq %d: %w", ev.Seq, err)
	}
	return nil
}

// ReadEvents returns a run's events in seq order, optionally filtered
// by kind (empty kind means all).
func (s *Store) ReadEvents(ctx context.Context, runID int64, kind string) ([]dcg.Event, error) {
	query := "SELECT seq, kind, node_id, detail FROM events WHERE run_id = ? ORDER BY seq"
	args := []any{runID}
	if kind != "" {
		query = "SELECT seq, kind, node_id, detail FROM events WHERE run_id = ? AND kind = ? ORDER BY seq"
		args = append(args, kind)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []dcg.Event
	for rows.Next() {
		var ev dcg.Event
		if err := rows.Scan(&ev.Seq, &ev.Kind, &ev.NodeID, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

// CountByKind tallies a run's events per kind.
func (s *Store) CountByKind(ctx context.Context, runID int64) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, COUNT(*) FROM events WHERE run_id = ? GROUP BY kind", runID)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[kind] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return out, nil
}

// Recorder adapts a Store run into a dcg.EventSink. Write failures
// are collected rather than propagated: the engine cannot handle sink
// errors mid-repair, so they surface via Err after the run.
type Recorder struct {
	store *Store
	runID int64
	ctx   context.Context
	err   error
}

// NewRecorder starts recording into a fresh run.
func NewRecorder(ctx context.Context, store *Store, label string) (*Recorder, error) {
	runID, err := store.BeginRun(ctx, label)
	if err != nil {
		return nil, err
	}
	return &Recorder{store: store, runID: runID, ctx: ctx}, nil
}

// RunID returns the run this recorder writes to.
func (r *Recorder) RunID() int64 {
	return r.runID
}

// Record implements dcg.EventSink.
func (r *Recorder) Record(ev dcg.Event) {
	if r.err != nil {
		return
	}
	r.err = r.store.WriteEvent(r.ctx, r.runID, ev)
}

// Err returns the first write failure, if any.
func (r *Recorder) Err() error {
	return r.err
}
