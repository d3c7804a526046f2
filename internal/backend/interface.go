package backend

import (
	"context"

	"janbu/internal/ledger"
)

// Backend represents a unified backend interface that provides all necessary operations
type Backend interface {
	ledger.RecordWriter
	ledger.RecordLister
	ledger.RecordDeleter
	ledger.ClientRegistry
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Firestore specific
	FirestoreProjectID         string
	FirestoreCredentialsFile   string
	FirestoreCredentialsJSON   string
	FirestoreRecordsCollection string
	FirestoreClientsCollection string

	// Memory backend specific
	DataDirectory string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend    BackendType = "sqlite"
	FirestoreBackend BackendType = "firestore"
	MemoryBackend    BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FirestoreBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
