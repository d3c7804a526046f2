package memory

import (
	"context"
	"testing"

	"janbu/internal/core"
)

func TestAppendAndListNewestFirst(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	first, err := s.Append(ctx, core.Record{Date: "2024-05-01", Client: "Acme", Amount: "1000"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	second, err := s.Append(ctx, core.Record{Date: "2024-05-02", Client: "Beta", Amount: "200"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != second || records[1].ID != first {
		t.Fatalf("expected newest first, got %+v", records)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New(nil)
	if _, err := s.Append(context.Background(), core.Record{Date: "2024-05-01", Client: "", Amount: "1"}); err == nil {
		t.Fatalf("expected validation error")
	}
	records, _ := s.ListAll(context.Background())
	if len(records) != 0 {
		t.Fatalf("store must stay unchanged on invalid append")
	}
}

func TestDeleteRecord(t *testing.T) {
	s := New(nil)
	ctx := context.Background()
	id1, _ := s.Append(ctx, core.Record{Date: "2024-05-01", Client: "Acme", Amount: "1"})
	id2, _ := s.Append(ctx, core.Record{Date: "2024-05-02", Client: "Beta", Amount: "2"})
	id3, _ := s.Append(ctx, core.Record{Date: "2024-05-03", Client: "Gamma", Amount: "3"})

	if err := s.DeleteRecord(ctx, id2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	records, _ := s.ListAll(ctx)
	if len(records) != 2 {
		t.Fatalf("expected 2 records after delete, got %d", len(records))
	}
	// Relative order of the survivors is preserved.
	if records[0].ID != id3 || records[1].ID != id1 {
		t.Fatalf("unexpected order after delete: %+v", records)
	}

	if err := s.DeleteRecord(ctx, "mem:999"); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestClientRegistryDedupes(t *testing.T) {
	s := New([]string{"Acme", "Acme", "Beta"})
	ctx := context.Background()

	names, err := s.ListClients(ctx)
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected seeded names deduped, got %v", names)
	}

	if err := s.RegisterClient(ctx, "Gamma"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.RegisterClient(ctx, "Gamma"); err != nil {
		t.Fatalf("re-register must be a no-op, got %v", err)
	}
	if err := s.RegisterClient(ctx, "  "); err == nil {
		t.Fatalf("expected error for blank name")
	}

	names, _ = s.ListClients(ctx)
	if len(names) != 3 || names[2] != "Gamma" {
		t.Fatalf("unexpected registry contents: %v", names)
	}
}
