package service

import (
	"sync"
	"time"
)

// claimRecord tracks the latest successful claim for one user. It is
// overwritten on each claim; only the most recent day matters.
type claimRecord struct {
	day       string // UTC calendar day, YYYY-MM-DD
	claimedAt time.Time
}

// BonusValidator enforces at most one daily bonus claim per user per UTC
// calendar day. It is a process-local early-rejection guard in front of
// the ledger; the newest daily_bonus ledger entry remains the
// authoritative record, so losing this state on restart is harmless.
type BonusValidator struct {
	mu        sync.Mutex
	claims    map[string]claimRecord
	retention time.Duration
	now       func() time.Time
}

// NewBonusValidator creates a validator that keeps claim records for the
// given number of days before Cleanup discards them
func NewBonusValidator(retentionDays int) *BonusValidator {
	return &BonusValidator{
		claims:    make(map[string]claimRecord),
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// SetClock replaces the validator's clock. Intended for tests.
func (v *BonusValidator) SetClock(now func() time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.now = now
}

// CanClaimToday reports whether anonID has not yet claimed a bonus on the
// current UTC calendar day. It has no side effects.
func (v *BonusValidator) CanClaimToday(anonID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	record, ok := v.claims[anonID]
	if !ok {
		return true
	}
	return record.day != UTCDay(v.now())
}

// RecordClaim unconditionally overwrites the claim record for anonID with
// the current day and instant. Callers must invoke it only after the
// corresponding ledger write has committed.
func (v *BonusValidator) RecordClaim(anonID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	v.claims[anonID] = claimRecord{
		day:       UTCDay(now),
		claimedAt: now,
	}
}

// TimeUntilNextClaim returns 0 when anonID can claim now, otherwise the
// duration until the next UTC midnight
func (v *BonusValidator) TimeUntilNextClaim(anonID string) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	record, ok := v.claims[anonID]
	if !ok || record.day != UTCDay(now) {
		return 0
	}
	return UntilNextUTCMidnight(now)
}

// Cleanup removes claim records older than the retention window and
// returns how many were dropped. It only bounds memory; CanClaimToday is
// correct without it.
func (v *BonusValidator) Cleanup() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	cutoff := v.now().Add(-v.retention)
	removed := 0
	for anonID, record := range v.claims {
		if record.claimedAt.Before(cutoff) {
			delete(v.claims, anonID)
			removed++
		}
	}
	return removed
}

// Size returns the number of tracked claim records
func (v *BonusValidator) Size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.claims)
}
