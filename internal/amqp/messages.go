package amqp

import (
	"encoding/json"
	"time"
)

// Routing keys carried on the sync exchange. Both keys bind to the same
// durable queue so one worker processes creates and deletes in order.
const (
	RoutingKeySync   = "record.sync"
	RoutingKeyDelete = "record.delete"
)

// RecordSyncMessage asks the worker to push a locally stored record to the
// remote document database. It carries only the local id, the worker fetches
// the row itself.
type RecordSyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSyncMessage(id int64) *RecordSyncMessage {
	return &RecordSyncMessage{ID: id, Timestamp: time.Now()}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RecordDeleteMessage asks the worker to remove the remote copy of a record
// that was soft deleted locally. RemoteID may be empty when the record was
// never synced, in which case the worker has nothing to delete remotely.
type RecordDeleteMessage struct {
	ID        int64     `json:"id"`
	RemoteID  string    `json:"remote_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordDeleteMessage(id int64, remoteID string) *RecordDeleteMessage {
	return &RecordDeleteMessage{ID: id, RemoteID: remoteID, Timestamp: time.Now()}
}

func (m *RecordDeleteMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordDeleteMessageFromJSON(data []byte) (*RecordDeleteMessage, error) {
	var msg RecordDeleteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
