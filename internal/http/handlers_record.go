package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"janbu/internal/core"
)

// User-facing messages. The form is Korean, matching the bookkeeping UI.
const (
	msgClientAmountRequired = "거래처명과 금액은 필수 입력입니다."
	msgAmountNotNumeric     = "금액은 숫자로 입력해야 합니다."
	msgRecordSaved          = "저장되었습니다."
	msgRecordDeleted        = "삭제되었습니다."
)

const (
	recordsCacheKey = "records:all"
	clientsCacheKey = "clients:all"
)

func (s *Server) invalidateRecords() {
	s.recordsCache.Delete(recordsCacheKey)
}

func (s *Server) invalidateClients() {
	s.clientsCache.Delete(clientsCacheKey)
}

func (s *Server) getRecords(ctx context.Context) ([]core.Record, error) {
	if items, found := s.recordsCache.Get(recordsCacheKey); found {
		slog.DebugContext(ctx, "Records cache hit", "count", len(items))
		// Return a copy to prevent external mutation
		result := make([]core.Record, len(items))
		copy(result, items)
		return result, nil
	}

	if s.lister == nil {
		return nil, nil
	}
	// Small timeout so partials don't hang on a slow backend
	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	items, err := s.lister.ListAll(cctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	s.recordsCache.Set(recordsCacheKey, items)
	slog.DebugContext(ctx, "Records cached", "count", len(items))
	return items, nil
}

func (s *Server) getClients(ctx context.Context) ([]string, error) {
	if names, found := s.clientsCache.Get(clientsCacheKey); found {
		return names, nil
	}

	if s.registry == nil {
		return nil, nil
	}
	cctx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	names, err := s.registry.ListClients(cctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	s.clientsCache.Set(clientsCacheKey, names)
	return names, nil
}

// recordRow is the view model for one table row.
type recordRow struct {
	ID     string
	Date   string
	Client string
	Amount string
	Memo   string
}

func toRows(records []core.Record) []recordRow {
	rows := make([]recordRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, recordRow{
			ID:     r.ID,
			Date:   r.Date,
			Client: r.Client,
			Amount: r.Amount,
			Memo:   r.Memo,
		})
	}
	return rows
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	month := parseMonthFilter(r)

	// Records and client names come from independent collections, fetch
	// them concurrently.
	var (
		records []core.Record
		clients []string
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		records, err = s.getRecords(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = s.getClients(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(r.Context(), "Index data load error", "error", err)
		// Render the page anyway, the form must stay usable
	}

	filtered := core.FilterByMonth(records, month)
	total, totalErr := core.MonthlyTotal(filtered, month)

	data := struct {
		Today      string
		Month      string
		Clients    []string
		Rows       []recordRow
		Total      string
		TotalError bool
	}{
		Today:      time.Now().Format("2006-01-02"),
		Month:      month,
		Clients:    clients,
		Rows:       toRows(filtered),
		Total:      core.FormatAmount(total),
		TotalError: totalErr != nil,
	}
	if totalErr != nil {
		slog.WarnContext(r.Context(), "Monthly total error", "error", totalErr, "month", month)
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("잘못된 요청 형식입니다.").Write(w)
		return
	}

	date := sanitizeInput(r.Form.Get("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	client := sanitizeInput(r.Form.Get("client"))
	amount := sanitizeInput(r.Form.Get("amount"))
	memo := sanitizeInput(r.Form.Get("memo"))

	// Client and amount are the two required fields; one message covers both.
	if client == "" || amount == "" {
		UnprocessableEntityError(msgClientAmountRequired).Write(w)
		return
	}
	if _, err := core.ParseAmount(amount); err != nil {
		UnprocessableEntityError(msgAmountNotNumeric).Write(w)
		return
	}

	rec := core.Record{Date: date, Client: client, Amount: amount, Memo: memo}
	if err := rec.Validate(); err != nil {
		UnprocessableEntityError(msgClientAmountRequired).Write(w)
		return
	}

	ref, err := s.writer.Append(r.Context(), rec)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save record",
			"error", err,
			"date", rec.Date,
			"client", rec.Client,
			"component", "record_writer",
			"operation", "append")
		InternalServerError("저장 중 오류가 발생했습니다.").Write(w)
		return
	}

	// The registry remembers every client name ever used so the datalist
	// offers it on the next entry.
	if s.registry != nil {
		if err := s.registry.RegisterClient(r.Context(), rec.Client); err != nil {
			slog.ErrorContext(r.Context(), "Failed to register client", "client", rec.Client, "error", err)
		}
	}

	s.invalidateRecords()
	s.invalidateClients()

	slog.InfoContext(r.Context(), "Record created",
		"ref", ref,
		"date", rec.Date,
		"client", rec.Client)

	NewHTMXResponse().
		TriggerRecordCreated(core.MonthKey(rec.Date)).
		TriggerFormReset().
		TriggerSuccessNotification(msgRecordSaved).
		Write(w)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		MethodNotAllowedError("DELETE, POST").Write(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		BadRequestError("잘못된 요청 형식입니다.").Write(w)
		return
	}
	recordID := sanitizeInput(r.Form.Get("id"))
	if recordID == "" {
		recordID = sanitizeInput(r.URL.Query().Get("id"))
	}
	if recordID == "" {
		BadRequestError("삭제할 기록의 ID가 없습니다.").Write(w)
		return
	}

	if s.deleter == nil {
		slog.ErrorContext(r.Context(), "Record deleter not configured")
		InternalServerError("삭제 기능을 사용할 수 없습니다.").Write(w)
		return
	}

	if err := s.deleter.DeleteRecord(r.Context(), recordID); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete record",
			"error", err,
			"record_id", recordID,
			"component", "record_deleter",
			"operation", "delete")
		InternalServerError("삭제 중 오류가 발생했습니다.").Write(w)
		return
	}

	s.invalidateRecords()

	slog.InfoContext(r.Context(), "Record deleted", "record_id", recordID)

	NewHTMXResponse().
		TriggerRecordDeleted(recordID).
		TriggerSuccessNotification(msgRecordDeleted).
		Write(w)
}

// handleRecordRows renders the record table partial, filtered by month.
func (s *Server) handleRecordRows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	month := parseMonthFilter(r)

	records, err := s.getRecords(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Record rows error", "error", err, "month", month)
		_, _ = w.Write([]byte(`<div class="placeholder error">목록을 불러오지 못했습니다.</div>`))
		return
	}

	filtered := core.FilterByMonth(records, month)
	total, totalErr := core.MonthlyTotal(filtered, month)
	if totalErr != nil {
		slog.WarnContext(r.Context(), "Monthly total error", "error", totalErr, "month", month)
	}

	data := struct {
		Month      string
		Rows       []recordRow
		Total      string
		TotalError bool
	}{
		Month:      month,
		Rows:       toRows(filtered),
		Total:      core.FormatAmount(total),
		TotalError: totalErr != nil,
	}

	if s.templates == nil {
		_, _ = w.Write([]byte(`<div class="placeholder">합계: ` + data.Total + `</div>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "record_rows.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "record_rows.html", "month", month)
		_, _ = w.Write([]byte(`<div class="placeholder error">목록 렌더링 오류</div>`))
	}
}
