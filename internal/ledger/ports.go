package ledger

import (
	"context"

	"janbu/internal/core"
)

// Ports for outbound adapters.
type (
	RecordWriter interface {
		Append(ctx context.Context, r core.Record) (id string, err error)
	}

	// RecordLister returns every stored record, newest first.
	RecordLister interface {
		ListAll(ctx context.Context) ([]core.Record, error)
	}

	RecordDeleter interface {
		DeleteRecord(ctx context.Context, id string) error
	}

	// ClientRegistry holds the deduplicated set of client names ever used on a
	// record. Names are only added, never removed.
	ClientRegistry interface {
		ListClients(ctx context.Context) ([]string, error)
		// RegisterClient persists a name; registering a known name is a no-op.
		RegisterClient(ctx context.Context, name string) error
	}
)
