// Package journal records every event a store handles in SQLite, one
// session per store, so a session's state can be rebuilt later.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNoSession is returned when a session does not exist or none exist.
var ErrNoSession = errors.New("journal: no such session")

// Record is one journaled event.
type Record struct {
	Session string
	Seq     int64
	Kind    string
	Payload []byte
	At      time.Time
}

// SessionInfo summarizes one session.
type SessionInfo struct {
	ID        string
	StartedAt time.Time
	Events    int
}

// Journal is an append-only event log.
type Journal struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open creates or opens the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	j := &Journal{db: db, path: path}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}
	return j, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

func (j *Journal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		payload BLOB,
		recorded_at DATETIME NOT NULL,
		PRIMARY KEY (session_id, seq),
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);
	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// StartSession registers a new session and returns its id.
func (j *Journal) StartSession(ctx context.Context) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	id := uuid.New().String()
	if _, err := j.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at) VALUES (?, ?)`, id, time.Now().UTC()); err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}
	return id, nil
}

// Append stores rec. Seq must be unique within the session.
func (j *Journal) Append(ctx context.Context, rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	at := rec.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO events (session_id, seq, kind, payload, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		rec.Session, rec.Seq, rec.Kind, rec.Payload, at)
	if err != nil {
		return fmt.Errorf("failed to append %s #%d: %w", rec.Kind, rec.Seq, err)
	}
	return nil
}

// Records returns a session's events in sequence order.
func (j *Journal) Records(ctx context.Context, session string) ([]Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var exists int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE id = ?`, session).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, session)
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, seq, kind, payload, recorded_at
		FROM events WHERE session_id = ? ORDER BY seq`, session)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Session, &rec.Seq, &rec.Kind, &rec.Payload, &rec.At); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Sessions lists sessions, newest first.
func (j *Journal) Sessions(ctx context.Context) ([]SessionInfo, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.QueryContext(ctx, `
		SELECT s.id, s.started_at, COUNT(e.seq)
		FROM sessions s LEFT JOIN events e ON e.session_id = s.id
		GROUP BY s.id, s.started_at
		ORDER BY s.started_at DESC, s.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.StartedAt, &info.Events); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Latest returns the most recently started session.
func (j *Journal) Latest(ctx context.Context) (SessionInfo, error) {
	sessions, err := j.Sessions(ctx)
	if err != nil {
		return SessionInfo{}, err
	}
	if len(sessions) == 0 {
		return SessionInfo{}, ErrNoSession
	}
	return sessions[0], nil
}
