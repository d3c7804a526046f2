package adapters

import (
	"context"

	"janbu/internal/core"
	"janbu/internal/services"
	"janbu/internal/storage"
)

// SQLiteAdapter adapts SQLiteRepository and RecordService to the ledger
// interfaces. Writes and deletes go through the service so the sync queue
// sees them; reads go straight to storage.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.RecordService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.RecordService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// Append implements ledger.RecordWriter
func (a *SQLiteAdapter) Append(ctx context.Context, r core.Record) (string, error) {
	return a.service.CreateRecord(ctx, r)
}

// ListAll implements ledger.RecordLister
func (a *SQLiteAdapter) ListAll(ctx context.Context) ([]core.Record, error) {
	return a.storage.ListAll(ctx)
}

// DeleteRecord implements ledger.RecordDeleter
func (a *SQLiteAdapter) DeleteRecord(ctx context.Context, id string) error {
	return a.service.DeleteRecord(ctx, id)
}

// ListClients implements ledger.ClientRegistry
func (a *SQLiteAdapter) ListClients(ctx context.Context) ([]string, error) {
	return a.storage.ListClients(ctx)
}

// RegisterClient implements ledger.ClientRegistry
func (a *SQLiteAdapter) RegisterClient(ctx context.Context, name string) error {
	return a.storage.RegisterClient(ctx, name)
}
