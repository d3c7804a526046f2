package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"janbu/internal/core"

	_ "modernc.org/sqlite"
)

// Sync states of a locally stored record.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

// SQLiteRepository is the local-first backend: records and client names live
// in sqlite, and a sync queue (sync_status/remote_id columns) tracks which
// rows still have to be pushed to the remote document database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.RecordWriter.
func (r *SQLiteRepository) Append(ctx context.Context, rec core.Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO records (date, client, amount, memo) VALUES (?, ?, ?, ?)`,
		rec.Date, rec.Client, rec.Amount, rec.Memo)
	if err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("record id: %w", err)
	}

	slog.InfoContext(ctx, "Record saved to SQLite",
		"id", id,
		"date", rec.Date,
		"client", rec.Client)

	return strconv.FormatInt(id, 10), nil
}

// ListAll implements ledger.RecordLister: all live records, newest first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, client, amount, memo
		 FROM records
		 WHERE deleted_at IS NULL
		 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var id int64
		var rec core.Record
		if err := rows.Scan(&id, &rec.Date, &rec.Client, &rec.Amount, &rec.Memo); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// DeleteRecord implements ledger.RecordDeleter. The row is soft deleted so
// the sync worker can still read its remote id when propagating the delete.
func (r *SQLiteRepository) DeleteRecord(ctx context.Context, id string) error {
	numID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("parse record id %q: %w", id, err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE records SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		numID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("record %s not found", id)
	}

	slog.InfoContext(ctx, "Record soft deleted", "id", numID)
	return nil
}

// ListClients implements ledger.ClientRegistry.
func (r *SQLiteRepository) ListClients(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM clients ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return names, nil
}

// RegisterClient implements ledger.ClientRegistry.
func (r *SQLiteRepository) RegisterClient(ctx context.Context, name string) error {
	if name == "" {
		return core.ErrEmptyClient
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("register client: %w", err)
	}
	return nil
}

// StoredRecord is a record row with its local sync bookkeeping.
type StoredRecord struct {
	ID         int64
	Record     core.Record
	RemoteID   string
	SyncStatus string
	CreatedAt  time.Time
	Deleted    bool
}

// GetRecord retrieves a single record row by local id, soft-deleted included.
func (r *SQLiteRepository) GetRecord(ctx context.Context, id int64) (*StoredRecord, error) {
	var sr StoredRecord
	var createdAt string
	var deletedAt sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, date, client, amount, memo, remote_id, sync_status, created_at, deleted_at
		 FROM records WHERE id = ?`, id).
		Scan(&sr.ID, &sr.Record.Date, &sr.Record.Client, &sr.Record.Amount, &sr.Record.Memo,
			&sr.RemoteID, &sr.SyncStatus, &createdAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("get record %d: %w", id, err)
	}
	sr.Record.ID = strconv.FormatInt(sr.ID, 10)
	sr.Deleted = deletedAt.Valid
	if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
		sr.CreatedAt = t
	}
	return &sr, nil
}

// GetPendingSyncRecords returns ids of live rows that still await a remote push.
func (r *SQLiteRepository) GetPendingSyncRecords(ctx context.Context, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM records
		 WHERE sync_status = ? AND deleted_at IS NULL
		 ORDER BY id LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync records: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan pending id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending ids: %w", err)
	}
	return ids, nil
}

// MarkSynced records the remote document id assigned to a pushed row.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64, remoteID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE records SET sync_status = ?, remote_id = ? WHERE id = ?`,
		SyncSynced, remoteID, id)
	if err != nil {
		return fmt.Errorf("mark record synced: %w", err)
	}
	slog.InfoContext(ctx, "Record marked as synced", "id", id, "remote_id", remoteID)
	return nil
}

// MarkSyncError marks a row whose remote push failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE records SET sync_status = ? WHERE id = ?`, SyncError, id)
	if err != nil {
		return fmt.Errorf("mark record sync error: %w", err)
	}
	slog.WarnContext(ctx, "Record marked with sync error", "id", id)
	return nil
}
