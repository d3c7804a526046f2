package core

import (
	"errors"
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{ID: "a", Date: "2024-05-01", Client: "Acme", Amount: "1000", Memo: ""},
		{ID: "b", Date: "2024-05-15", Client: "Acme", Amount: "500", Memo: "refund"},
		{ID: "c", Date: "2024-06-01", Client: "Beta", Amount: "2000", Memo: ""},
	}
}

func TestMonthKey(t *testing.T) {
	cases := []struct{ in, out string }{
		{"2024-05-20", "2024-05"},
		{"2024-05", "2024-05"},
		{"2024", "2024"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := MonthKey(tc.in); got != tc.out {
			t.Fatalf("MonthKey(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestMonthlyTotal(t *testing.T) {
	records := sampleRecords()

	total, err := MonthlyTotal(records, "2024-05-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1500 {
		t.Fatalf("expected 1500, got %v", total)
	}

	total, err = MonthlyTotal(records, "2024-06-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2000 {
		t.Fatalf("expected 2000, got %v", total)
	}

	// No records in the month contribute zero.
	total, err = MonthlyTotal(records, "2030-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected 0, got %v", total)
	}
}

func TestMonthlyTotalEmptyReferenceSumsAll(t *testing.T) {
	// An empty reference date has an empty month key and matches everything.
	total, err := MonthlyTotal(sampleRecords(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3500 {
		t.Fatalf("expected 3500, got %v", total)
	}
}

func TestMonthlyTotalBadAmountFailsFast(t *testing.T) {
	records := append(sampleRecords(), Record{ID: "d", Date: "2024-05-20", Client: "Gamma", Amount: "oops"})

	_, err := MonthlyTotal(records, "2024-05-01")
	if !errors.Is(err, ErrAmountNotNumeric) {
		t.Fatalf("expected ErrAmountNotNumeric, got %v", err)
	}

	// The bad record is outside the requested month, so it must not matter.
	total, err := MonthlyTotal(records, "2024-06-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2000 {
		t.Fatalf("expected 2000, got %v", total)
	}
}

func TestFilterByMonth(t *testing.T) {
	records := sampleRecords()

	got := FilterByMonth(records, "2024-06")
	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("expected only record c, got %+v", got)
	}

	got = FilterByMonth(records, "2024-05")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("expected records a,b in order, got %+v", got)
	}

	if got = FilterByMonth(records, "1999-01"); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestFilterByMonthEmptyFilterReturnsInputUnchanged(t *testing.T) {
	records := sampleRecords()
	got := FilterByMonth(records, "")
	if len(got) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(got))
	}
	for i := range records {
		if got[i].ID != records[i].ID {
			t.Fatalf("order changed at %d: %s != %s", i, got[i].ID, records[i].ID)
		}
	}
}
