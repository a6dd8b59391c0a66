// Package snapshot persists per-binding combined types between analysis
// sessions, so a later run can report which bindings drifted without
// re-deriving anything from the previous run.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNoSessions is returned when the store holds no previous session.
var ErrNoSessions = errors.New("snapshot store has no sessions")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	session_id TEXT NOT NULL REFERENCES sessions(id),
	binding    TEXT NOT NULL,
	type       TEXT NOT NULL,
	PRIMARY KEY (session_id, binding)
);
`

// Store is a SQLite-backed session snapshot store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the snapshot database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSession records one analysis session's combined types, keyed by
// binding name, rendered as type expressions.
func (s *Store) SaveSession(ctx context.Context, id uuid.UUID, results map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at) VALUES (?, ?)`,
		id.String(), time.Now().UTC()); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	for binding, typ := range results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO results (session_id, binding, type) VALUES (?, ?, ?)`,
			id.String(), binding, typ); err != nil {
			return fmt.Errorf("insert result for %q: %w", binding, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LastSession returns the most recent session's id and results.
func (s *Store) LastSession(ctx context.Context) (uuid.UUID, map[string]string, error) {
	var idStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM sessions ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&idStr)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, nil, ErrNoSessions
	}
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("query last session: %w", err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("parse session id %q: %w", idStr, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT binding, type FROM results WHERE session_id = ?`, idStr)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("query session results: %w", err)
	}
	defer rows.Close()

	results := make(map[string]string)
	for rows.Next() {
		var binding, typ string
		if err := rows.Scan(&binding, &typ); err != nil {
			return uuid.Nil, nil, fmt.Errorf("scan session result: %w", err)
		}
		results[binding] = typ
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, nil, fmt.Errorf("read session results: %w", err)
	}
	return id, results, nil
}

// Change is one binding whose combined type differs from the previous
// session. Previous is empty for a binding the last session did not
// have; Current is empty for a binding that disappeared.
type Change struct {
	Binding  string
	Previous string
	Current  string
}

// Diff compares current results against the last saved session and
// returns the drifted bindings sorted by name. With no previous session
// it returns ErrNoSessions.
func (s *Store) Diff(ctx context.Context, current map[string]string) ([]Change, error) {
	_, previous, err := s.LastSession(ctx)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for binding, cur := range current {
		if prev, ok := previous[binding]; !ok {
			changes = append(changes, Change{Binding: binding, Current: cur})
		} else if prev != cur {
			changes = append(changes, Change{Binding: binding, Previous: prev, Current: cur})
		}
	}
	for binding, prev := range previous {
		if _, ok := current[binding]; !ok {
			changes = append(changes, Change{Binding: binding, Previous: prev})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Binding < changes[j].Binding
	})
	return changes, nil
}
