package amqp

import (
	"testing"
)

func TestRecordSyncMessageRoundTrip(t *testing.T) {
	msg := NewRecordSyncMessage(42)
	if msg.ID != 42 {
		t.Fatalf("expected id 42, got %d", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := RecordSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != msg.ID {
		t.Fatalf("id mismatch: %d != %d", got.ID, msg.ID)
	}
}

func TestRecordDeleteMessageRoundTrip(t *testing.T) {
	msg := NewRecordDeleteMessage(7, "fs-abc")
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := RecordDeleteMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != 7 || got.RemoteID != "fs-abc" {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestMessageFromInvalidJSON(t *testing.T) {
	if _, err := RecordSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if _, err := RecordDeleteMessageFromJSON([]byte("{")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}
