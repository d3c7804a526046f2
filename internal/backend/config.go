package backend

import (
	"fmt"

	"janbu/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		// SQLite configuration
		SQLiteDBPath: appConfig.SQLiteDBPath,
		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		// Firestore configuration
		FirestoreProjectID:         appConfig.FirestoreProjectID,
		FirestoreCredentialsFile:   appConfig.FirestoreCredentialsFile,
		FirestoreCredentialsJSON:   appConfig.FirestoreCredentialsJSON,
		FirestoreRecordsCollection: appConfig.FirestoreRecordsCollection,
		FirestoreClientsCollection: appConfig.FirestoreClientsCollection,

		// Memory backend uses default data directory
		DataDirectory: "data",
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
		// AMQP is optional, so we don't validate it

	case FirestoreBackend:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("Firestore project ID is required for firestore backend")
		}

	case MemoryBackend:
		// Memory backend doesn't require additional validation
		// DataDirectory will default to "data" if empty
	}

	return nil
}
