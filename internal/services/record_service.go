package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"janbu/internal/amqp"
	"janbu/internal/core"
	"janbu/internal/storage"
)

// RecordService orchestrates record operations across SQLite and AMQP.
// Writes land locally first; remote propagation happens through the queue.
type RecordService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewRecordService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *RecordService {
	return &RecordService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateRecord saves a record locally and publishes a sync message
func (s *RecordService) CreateRecord(ctx context.Context, rec core.Record) (string, error) {
	// Save to SQLite first (fast, reliable)
	ref, err := s.storage.Append(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("save record: %w", err)
	}

	// Register the client name alongside the record
	if err := s.storage.RegisterClient(ctx, rec.Client); err != nil {
		slog.ErrorContext(ctx, "Failed to register client", "client", rec.Client, "error", err)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse record ID", "ref", ref, "error", err)
		return ref, nil // Return anyway, SQLite save succeeded
	}

	// Publish async sync message (non-blocking)
	if err := s.publishSyncMessage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "error", err)
		// Don't fail the request - record is saved locally
	}

	return ref, nil
}

// DeleteRecord soft deletes a record locally and publishes a delete message
func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	numID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("parse record id %q: %w", id, err)
	}

	// Read the remote id before the soft delete so the worker can remove
	// the remote copy too.
	stored, err := s.storage.GetRecord(ctx, numID)
	if err != nil {
		return fmt.Errorf("load record %d: %w", numID, err)
	}

	if err := s.storage.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("soft delete record: %w", err)
	}

	if err := s.publishDeleteMessage(ctx, numID, stored.RemoteID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", numID, "error", err)
		// Don't fail the request - record is deleted locally
	}

	return nil
}

func (s *RecordService) publishSyncMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	return s.amqpClient.PublishRecordSync(ctx, id)
}

func (s *RecordService) publishDeleteMessage(ctx context.Context, id int64, remoteID string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}

	return s.amqpClient.PublishRecordDelete(ctx, id, remoteID)
}

// Close closes both storage and AMQP connections
func (s *RecordService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close record service: %v", errs)
	}

	return nil
}
