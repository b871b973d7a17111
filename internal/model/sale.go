package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale represents one row of the Land Registry price-paid ledger.
type Sale struct {
	TransactionID string
	Price         decimal.Decimal // whole pounds
	Date          time.Time
	Postcode      string // as published; normalize before matching
	PropertyType  string // D, S, T, F, O
	NewBuild      bool
	Duration      string // F = freehold, L = leasehold
	PPDCategory   string // A = standard, B = additional
}
