package core

import (
	"errors"
	"strings"
)

// Record is one immutable ledger entry. Records are only ever created or
// deleted; there is no update path. ID is assigned by the persistence layer
// and stays empty until the record round-trips through storage.
type Record struct {
	ID     string
	Date   string // calendar date text, YYYY-MM-DD, user supplied
	Client string
	Amount string // numeric text, parsed only via ParseAmount
	Memo   string
}

var (
	ErrEmptyClient      = errors.New("empty client name")
	ErrEmptyAmount      = errors.New("empty amount")
	ErrAmountNotNumeric = errors.New("amount is not numeric")
	ErrClientTooLong    = errors.New("client name too long (max 100 characters)")
	ErrMemoTooLong      = errors.New("memo too long (max 500 characters)")
)

// Validate enforces the required-field rule: client and amount must be
// non-empty and the amount must parse as a number. Dates are user supplied
// and deliberately not checked for real-calendar validity.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Client) == "" {
		return ErrEmptyClient
	}
	if len(r.Client) > 100 {
		return ErrClientTooLong
	}
	if strings.TrimSpace(r.Amount) == "" {
		return ErrEmptyAmount
	}
	if _, err := ParseAmount(r.Amount); err != nil {
		return err
	}
	if len(r.Memo) > 500 {
		return ErrMemoTooLong
	}
	return nil
}
