package core

import (
	"fmt"
	"strings"
)

// MonthKey returns the grouping key of a date string: its first seven
// characters (YYYY-MM). Shorter strings are returned whole, so an empty
// reference date groups every record together.
func MonthKey(date string) string {
	if len(date) > 7 {
		return date[:7]
	}
	return date
}

// MonthlyTotal sums the amounts of all records falling in the month of
// referenceDate. It fails on the first in-month record whose stored amount
// does not parse, wrapping ErrAmountNotNumeric with the record's identity;
// a bad amount is reported, never skipped and never allowed to poison the
// running sum.
func MonthlyTotal(records []Record, referenceDate string) (float64, error) {
	month := MonthKey(referenceDate)
	var total float64
	for _, r := range records {
		if !strings.HasPrefix(r.Date, month) {
			continue
		}
		v, err := ParseAmount(r.Amount)
		if err != nil {
			return 0, fmt.Errorf("record %q (%s): %w", r.ID, r.Date, err)
		}
		total += v
	}
	return total, nil
}

// FilterByMonth returns the subsequence of records whose date starts with
// monthFilter, preserving relative order. An empty filter returns the input
// unchanged.
func FilterByMonth(records []Record, monthFilter string) []Record {
	if monthFilter == "" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.HasPrefix(r.Date, monthFilter) {
			out = append(out, r)
		}
	}
	return out
}
