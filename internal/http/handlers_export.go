package http

import (
	"log/slog"
	"net/http"
	"time"

	"janbu/internal/core"
	"janbu/internal/export"
)

// handleExportCSV streams the record list as a CSV download. The optional
// month query parameter narrows the export the same way the table filter does.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	month := parseMonthFilter(r)

	records, err := s.getRecords(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "CSV export error", "error", err, "month", month)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	filtered := core.FilterByMonth(records, month)
	body := export.Build(filtered)
	filename := export.Filename(time.Now())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))

	slog.InfoContext(r.Context(), "CSV exported",
		"filename", filename,
		"records", len(filtered),
		"month", month)
}
