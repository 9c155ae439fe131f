// Package audit persists command executions in SQLite.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"spreedly-bot/internal/domain/model"
	"spreedly-bot/internal/domain/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS command_audit (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL DEFAULT '',
	actor      TEXT NOT NULL DEFAULT '',
	command    TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT '',
	token      TEXT NOT NULL DEFAULT '',
	ok         INTEGER NOT NULL,
	error      TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
)`

// Store is a SQLite-backed ports.AuditStore.
type Store struct {
	db *sql.DB
}

var _ ports.AuditStore = (*Store)(nil)

// Open opens (or creates) the audit database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit database ping failed: %w", err)
	}

	store, err := NewStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps an open database and applies the schema.
func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append writes one entry.
func (s *Store) Append(ctx context.Context, entry model.AuditEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO command_audit (request_id, actor, command, type, token, ok, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RequestID, entry.Actor, entry.Command, entry.Type, entry.Token,
		entry.OK, entry.Error, createdAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, request_id, actor, command, type, token, ok, error, created_at
		 FROM command_audit ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var entry model.AuditEntry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.RequestID, &entry.Actor, &entry.Command,
			&entry.Type, &entry.Token, &entry.OK, &entry.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			entry.CreatedAt = ts
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
