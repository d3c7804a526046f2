package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount parses the amount text of a record into a number. Amounts are
// stored as text and only interpreted numerically at aggregation and display
// time, so this is the single place the coercion happens. Empty strings,
// "NaN" and infinities are rejected instead of being propagated into sums.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrAmountNotNumeric, s)
	}
	return v, nil
}

// FormatAmount renders a parsed amount back to its shortest decimal text.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
