package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dmtarl/abcompare/internal/compare"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	created_at    TEXT NOT NULL,
	static_path   TEXT NOT NULL,
	dynamic_path  TEXT NOT NULL,
	static_n      INTEGER NOT NULL,
	dynamic_n     INTEGER NOT NULL,
	pairs         INTEGER NOT NULL,
	fields_json   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);
`

// timeLayout is fixed-width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one stored comparison.
type Run struct {
	ID          string
	CreatedAt   time.Time
	StaticPath  string
	DynamicPath string
	StaticN     int
	DynamicN    int
	Pairs       int

	// Fields maps summary column names to values; nil marks a
	// not-computable metric.
	Fields map[string]*float64
}

// Store is the run log.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts res as a new run and returns its id.
func (s *Store) Record(ctx context.Context, res *compare.Result) (string, error) {
	fields := make(map[string]*float64)
	for _, f := range res.Summary.Fields() {
		if !f.Numeric {
			continue
		}
		if v, ok := f.Value.Get(); ok {
			fields[f.Name] = &v
		} else {
			fields[f.Name] = nil
		}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("history: marshal fields: %w", err)
	}

	id := uuid.New().String()
	m := res.Metrics
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, created_at, static_path, dynamic_path, static_n, dynamic_n, pairs, fields_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.now().UTC().Format(timeLayout),
		res.Summary.StaticPath, res.Summary.DynamicPath,
		m.StaticN, m.DynamicN, m.Pairs, string(fieldsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("history: insert run: %w", err)
	}

	slog.Debug("history: run recorded", "run_id", id, "pairs", m.Pairs)
	return id, nil
}

// List returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT run_id, created_at, static_path, dynamic_path, static_n, dynamic_n, pairs, fields_json
	      FROM runs ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r          Run
			createdAt  string
			fieldsJSON string
		)
		if err := rows.Scan(&r.ID, &createdAt, &r.StaticPath, &r.DynamicPath,
			&r.StaticN, &r.DynamicN, &r.Pairs, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("history: parse created_at %q: %w", createdAt, err)
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &r.Fields); err != nil {
			return nil, fmt.Errorf("history: unmarshal fields of %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
