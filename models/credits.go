package models

import (
	"time"
)

// Credits is the denormalized balance record for a user. The balance
// must always equal the sum of the user's ledger entry amounts.
type Credits struct {
	AnonID    string    `db:"anon_id"`
	Balance   int64     `db:"balance"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CreditSummary is the standard result of a credit operation: the
// resulting balance plus a bounded slice of recent ledger entries,
// newest first.
type CreditSummary struct {
	Balance int64
	Ledger  []*LedgerEntry
}
