// Package history journals routing decisions to SQLite so users can
// audit what the router matched, how confident it was, and what the
// gate decided. The journal is advisory: recording failures are the
// caller's to swallow, routing never depends on it.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Entry is one recorded routing decision.
type Entry struct {
	ID         string  `json:"id"`
	Project    string  `json:"project"`
	Query      string  `json:"query"`
	Command    string  `json:"command,omitempty"`
	MatchType  string  `json:"match_type"`
	Method     string  `json:"method,omitempty"`
	Confidence float64 `json:"confidence"`
	GateAction string  `json:"gate_action,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

// Journal is the routing-decision log backed by SQLite.
type Journal struct {
	db *sql.DB
}

// Open creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func Open(dataDir string) (*Journal, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dataDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	j := &Journal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return j, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS routing_decisions (
			id          TEXT PRIMARY KEY,
			project     TEXT NOT NULL,
			query       TEXT NOT NULL,
			command     TEXT,
			match_type  TEXT NOT NULL,
			method      TEXT,
			confidence  REAL NOT NULL DEFAULT 0,
			gate_action TEXT,
			created_at  TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_decisions_project ON routing_decisions(project);
		CREATE INDEX IF NOT EXISTS idx_decisions_created ON routing_decisions(created_at DESC);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Record appends one decision and returns its generated id.
func (j *Journal) Record(e Entry) (string, error) {
	id := uuid.NewString()
	_, err := j.db.Exec(`
		INSERT INTO routing_decisions (id, project, query, command, match_type, method, confidence, gate_action)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.Project, e.Query, e.Command, e.MatchType, e.Method, e.Confidence, e.GateAction)
	if err != nil {
		return "", fmt.Errorf("history: record decision: %w", err)
	}
	return id, nil
}

// Recent returns the newest decisions for a project, most recent first.
// An empty project returns decisions across all projects.
func (j *Journal) Recent(project string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, project, query, command, match_type, method, confidence, gate_action, created_at
		FROM routing_decisions`
	args := []any{}
	if project != "" {
		query += ` WHERE project = ?`
		args = append(args, project)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query decisions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var command, method, gateAction sql.NullString
		if err := rows.Scan(&e.ID, &e.Project, &e.Query, &command, &e.MatchType,
			&method, &e.Confidence, &gateAction, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan decision: %w", err)
		}
		e.Command = command.String
		e.Method = method.String
		e.GateAction = gateAction.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
