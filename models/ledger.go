package models

import (
	"time"
)

// EntryType categorizes a ledger entry
type EntryType string

const (
	EntryTypeDailyBonus EntryType = "daily_bonus"
	EntryTypeSpend      EntryType = "spend"
	EntryTypeAdjust     EntryType = "adjust"
	EntryTypeInitial    EntryType = "initial"
)

// LedgerEntry is one immutable line of the append-only credit audit
// trail. Amount is signed: positive for grants, negative for debits.
type LedgerEntry struct {
	ID        string    `db:"id"`
	AnonID    string    `db:"anon_id"`
	Amount    int64     `db:"amount"`
	Type      EntryType `db:"entry_type"`
	Reason    *string   `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}
