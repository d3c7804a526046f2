// Package export serializes a filtered record view into the CSV file the
// download button produces.
package export

import (
	"strings"
	"time"

	"janbu/internal/core"
)

// Header is the fixed first line of every export: date, client, amount, memo.
const Header = "날짜,거래처명,금액,메모"

// Build serializes records into CSV text: the header plus one line per
// record, fields joined by commas in date, client, amount, memo order.
// Fields are written as-is, without quoting or escaping: a comma or newline
// inside a client name or memo corrupts the column count. This matches the
// file format the tool has always produced; quoted CSV would break existing
// spreadsheet imports.
func Build(records []core.Record) string {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, Header)
	for _, r := range records {
		lines = append(lines, strings.Join([]string{r.Date, r.Client, r.Amount, r.Memo}, ","))
	}
	return strings.Join(lines, "\n")
}

// Filename names an export taken at t: simple_accounting_<yyyyMMdd_HHmmss>.csv.
func Filename(t time.Time) string {
	return "simple_accounting_" + t.Format("20060102_150405") + ".csv"
}
