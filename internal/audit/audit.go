// Package audit persists gateway audit records in sqlite.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"ditto-go/internal/shared"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts_ms INTEGER NOT NULL,
    kind TEXT NOT NULL,
    payload_json TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_logs_ts_ms ON audit_logs(ts_ms);
CREATE INDEX IF NOT EXISTS idx_audit_logs_kind_ts_ms ON audit_logs(kind, ts_ms);
`

// WAL keeps appends from blocking reads; the busy timeout covers the
// short writer contention that still happens.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA busy_timeout = 5000",
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping audit database: %w", err)
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Append(ctx context.Context, kind string, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode audit payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO audit_logs (ts_ms, kind, payload_json) VALUES (?, ?, ?)",
		time.Now().UnixMilli(), kind, string(encoded),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// List returns records newest first. A non-positive limit falls back to
// the default and anything above the cap is clamped.
func (s *Store) List(ctx context.Context, limit int, sinceMS int64) ([]shared.AuditRecord, error) {
	if limit <= 0 {
		limit = shared.DefaultAuditLimit
	}
	if limit > shared.MaxAuditLimit {
		limit = shared.MaxAuditLimit
	}

	query := "SELECT id, ts_ms, kind, payload_json FROM audit_logs"
	args := []any{}
	if sinceMS > 0 {
		query += " WHERE ts_ms >= ?"
		args = append(args, sinceMS)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	records := make([]shared.AuditRecord, 0)
	for rows.Next() {
		var rec shared.AuditRecord
		var payload string
		if err := rows.Scan(&rec.ID, &rec.TsMS, &rec.Kind, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.Payload = json.RawMessage(payload)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
