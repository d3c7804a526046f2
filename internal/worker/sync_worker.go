package worker

import (
	"context"
	"fmt"
	"log/slog"

	"janbu/internal/amqp"
	"janbu/internal/ledger"
	"janbu/internal/storage"
)

// SyncWorker pushes locally saved records from SQLite to the remote
// document database and propagates local deletes.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	remote    ledger.RecordWriter
	deleter   ledger.RecordDeleter
	clients   ledger.ClientRegistry
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, remote ledger.RecordWriter, deleter ledger.RecordDeleter, clients ledger.ClientRegistry, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		remote:    remote,
		deleter:   deleter,
		clients:   clients,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single record sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)
	return w.pushRecord(ctx, msg.ID)
}

// HandleDeleteMessage processes a single record delete message from AMQP
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.RecordDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID, "remote_id", msg.RemoteID)

	if w.deleter == nil {
		slog.WarnContext(ctx, "No remote deleter configured, skipping remote deletion", "id", msg.ID)
		return nil
	}

	// Records that were never pushed have no remote copy to remove.
	if msg.RemoteID == "" {
		slog.InfoContext(ctx, "Record was never synced, nothing to delete remotely", "id", msg.ID)
		return nil
	}

	if err := w.deleter.DeleteRecord(ctx, msg.RemoteID); err != nil {
		slog.ErrorContext(ctx, "Failed to delete remote record",
			"id", msg.ID,
			"remote_id", msg.RemoteID,
			"error", err)
		return fmt.Errorf("delete remote record: %w", err)
	}

	slog.InfoContext(ctx, "Deleted remote record", "id", msg.ID, "remote_id", msg.RemoteID)
	return nil
}

// ProcessPendingRecords pushes any records that haven't been synced yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingRecords(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncRecords(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending records", "count", len(pending))

	for _, id := range pending {
		if err := w.pushRecord(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to sync record", "id", id, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck pushes pending records at worker startup. This recovers
// from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Get a larger batch for startup check
	pending, err := w.storage.GetPendingSyncRecords(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending records for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending records found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending records on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, id := range pending {
		if err := w.pushRecord(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to sync record during startup",
				"id", id, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) pushRecord(ctx context.Context, id int64) error {
	stored, err := w.storage.GetRecord(ctx, id)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("get record from storage: %w", err)
	}

	// A row deleted between publish and consume no longer needs a push.
	if stored.Deleted {
		slog.InfoContext(ctx, "Record deleted before sync, skipping", "id", id)
		return nil
	}

	remoteID, err := w.remote.Append(ctx, stored.Record)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("append to remote: %w", err)
	}

	if w.clients != nil {
		if err := w.clients.RegisterClient(ctx, stored.Record.Client); err != nil {
			slog.ErrorContext(ctx, "Failed to register client remotely",
				"client", stored.Record.Client, "error", err)
			// Don't fail the sync, the record itself is pushed
		}
	}

	if err := w.storage.MarkSynced(ctx, id, remoteID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
		// Don't return error here - the sync actually worked
	}

	slog.InfoContext(ctx, "Successfully synced record",
		"id", id,
		"remote_id", remoteID,
		"client", stored.Record.Client)

	return nil
}
