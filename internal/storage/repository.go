// Package storage persists the activity journal in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"billetera/internal/core"
	"billetera/internal/journal"
	"billetera/internal/log"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath and
// applies the embedded migrations.
func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("SQLite journal ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db, logger: logger, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// RecordEvents implements journal.Sink. The batch is written in a single
// transaction; ids already present are skipped so redelivered messages are
// harmless.
func (r *SQLiteRepository) RecordEvents(ctx context.Context, events []core.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO ledger_events
		(id, kind, occurred_at, entity_id, phone, amount_cents, detail, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare journal insert: %w", err)
	}
	defer stmt.Close()

	recordedAt := r.now().UTC().UnixMilli()
	inserted := 0
	for _, e := range events {
		res, err := stmt.ExecContext(ctx,
			e.ID, string(e.Kind), e.OccurredAt.UTC().UnixMilli(),
			e.EntityID, e.Phone, e.AmountCents, e.Detail, recordedAt)
		if err != nil {
			return fmt.Errorf("insert event %s: %w", e.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit journal tx: %w", err)
	}

	r.logger.DebugContext(ctx, "Events journaled",
		log.FieldOperation, log.OpRecord,
		log.FieldEventCount, len(events),
		"inserted", inserted)
	return nil
}

// ListEvents implements journal.Reader.
func (r *SQLiteRepository) ListEvents(ctx context.Context, limit int) ([]core.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, kind, occurred_at, entity_id, phone, amount_cents, detail
		FROM ledger_events ORDER BY seq DESC LIMIT ?`, journal.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListEventsByKind implements journal.Reader.
func (r *SQLiteRepository) ListEventsByKind(ctx context.Context, kind core.EventKind, limit int) ([]core.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, kind, occurred_at, entity_id, phone, amount_cents, detail
		FROM ledger_events WHERE kind = ? ORDER BY seq DESC LIMIT ?`, string(kind), journal.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list events by kind %s: %w", kind, err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// CountEvents implements journal.Reader.
func (r *SQLiteRepository) CountEvents(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ledger_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func scanEvents(rows *sql.Rows) ([]core.Event, error) {
	var out []core.Event
	for rows.Next() {
		var (
			e        core.Event
			kind     string
			occurred int64
		)
		if err := rows.Scan(&e.ID, &kind, &occurred, &e.EntityID, &e.Phone, &e.AmountCents, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = core.EventKind(kind)
		e.OccurredAt = time.UnixMilli(occurred).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}
