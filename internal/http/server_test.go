package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"janbu/internal/core"
	"janbu/internal/ledger/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New([]string{"Acme"})
	s := NewServer(":0", store, store, store, store)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s, store
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateRecord(t *testing.T) {
	s, store := newTestServer(t)

	rec := postForm(t, s, "/records", url.Values{
		"date":   {"2024-05-01"},
		"client": {"Acme"},
		"amount": {"1000"},
		"memo":   {"deposit"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "record:created") || !strings.Contains(trigger, "form:reset") {
		t.Fatalf("missing triggers: %s", trigger)
	}

	records, _ := store.ListAll(context.Background())
	if len(records) != 1 || records[0].Memo != "deposit" {
		t.Fatalf("record not stored: %+v", records)
	}
}

func TestCreateRecordRequiredFields(t *testing.T) {
	s, store := newTestServer(t)

	for _, form := range []url.Values{
		{"date": {"2024-05-01"}, "amount": {"1000"}},
		{"date": {"2024-05-01"}, "client": {"Acme"}},
		{"date": {"2024-05-01"}, "client": {"  "}, "amount": {"1000"}},
	} {
		rec := postForm(t, s, "/records", form)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 for %v, got %d", form, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), msgClientAmountRequired) {
			t.Fatalf("expected required-fields message, got %s", rec.Body.String())
		}
	}

	records, _ := store.ListAll(context.Background())
	if len(records) != 0 {
		t.Fatalf("invalid submissions must not be stored: %+v", records)
	}
}

func TestCreateRecordRejectsNonNumericAmount(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postForm(t, s, "/records", url.Values{
		"date":   {"2024-05-01"},
		"client": {"Acme"},
		"amount": {"abc"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), msgAmountNotNumeric) {
		t.Fatalf("expected numeric-amount message, got %s", rec.Body.String())
	}
}

func TestDeleteRecord(t *testing.T) {
	s, store := newTestServer(t)

	id, err := store.Append(context.Background(), core.Record{Date: "2024-05-01", Client: "Acme", Amount: "1000"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := postForm(t, s, "/records/delete", url.Values{"id": {id}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "record:deleted") {
		t.Fatalf("missing record:deleted trigger")
	}

	records, _ := store.ListAll(context.Background())
	if len(records) != 0 {
		t.Fatalf("record not deleted: %+v", records)
	}

	// Deleting again surfaces the stale view as an error
	rec = postForm(t, s, "/records/delete", url.Values{"id": {id}})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unknown id, got %d", rec.Code)
	}
}

func TestDeleteRecordMissingID(t *testing.T) {
	s, _ := newTestServer(t)

	rec := postForm(t, s, "/records/delete", url.Values{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecordRowsMonthFilterAndTotal(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	seed := []core.Record{
		{Date: "2024-05-01", Client: "Acme", Amount: "1000"},
		{Date: "2024-05-15", Client: "Acme", Amount: "500", Memo: "refund"},
		{Date: "2024-06-01", Client: "Beta", Amount: "2000"},
	}
	for _, r := range seed {
		if _, err := store.Append(ctx, r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rec := get(t, s, "/ui/record-rows?month=2024-05")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "Beta") {
		t.Fatalf("June record leaked into May view: %s", body)
	}
	if !strings.Contains(body, "1500") {
		t.Fatalf("expected monthly total 1500 in body: %s", body)
	}

	// Unfiltered rows include everything
	rec = get(t, s, "/ui/record-rows")
	if !strings.Contains(rec.Body.String(), "Beta") {
		t.Fatalf("unfiltered view must include all records")
	}
}

func TestRecordRowsCacheInvalidatedByCreate(t *testing.T) {
	s, _ := newTestServer(t)

	// Prime the cache with an empty list
	if rec := get(t, s, "/ui/record-rows"); rec.Code != http.StatusOK {
		t.Fatalf("prime: %d", rec.Code)
	}

	postForm(t, s, "/records", url.Values{
		"date":   {"2024-05-01"},
		"client": {"Acme"},
		"amount": {"1000"},
	})

	rec := get(t, s, "/ui/record-rows")
	if !strings.Contains(rec.Body.String(), "Acme") {
		t.Fatalf("new record missing after create, cache not invalidated: %s", rec.Body.String())
	}
}

func TestExportCSV(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	if _, err := store.Append(ctx, core.Record{Date: "2024-05-01", Client: "Acme", Amount: "1000", Memo: "deposit"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.Append(ctx, core.Record{Date: "2024-06-01", Client: "Beta", Amount: "2000"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := get(t, s, "/export.csv?month=2024-05")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "simple_accounting_") || !strings.Contains(cd, ".csv") {
		t.Fatalf("unexpected content disposition %q", cd)
	}

	lines := strings.Split(rec.Body.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines: %q", len(lines), lines)
	}
	if lines[0] != "날짜,거래처명,금액,메모" {
		t.Fatalf("unexpected header line %q", lines[0])
	}
	if lines[1] != "2024-05-01,Acme,1000,deposit" {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := get(t, s, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
	rec := get(t, s, "/readyz")
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"ready"`) {
		t.Fatalf("unexpected readiness body: %s", rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
