package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBonusValidator_CanClaimToday_UnknownUser(t *testing.T) {
	validator := NewBonusValidator(7)

	assert.True(t, validator.CanClaimToday("anon-1"))
	assert.Equal(t, time.Duration(0), validator.TimeUntilNextClaim("anon-1"))
}

func TestBonusValidator_RecordClaim_BlocksSameDay(t *testing.T) {
	validator := NewBonusValidator(7)
	current := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	validator.SetClock(func() time.Time { return current })

	validator.RecordClaim("anon-1")

	assert.False(t, validator.CanClaimToday("anon-1"))
	// Other users are unaffected
	assert.True(t, validator.CanClaimToday("anon-2"))

	// Later the same day is still blocked
	current = time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	assert.False(t, validator.CanClaimToday("anon-1"))
}

func TestBonusValidator_ResetsAtUTCMidnight(t *testing.T) {
	validator := NewBonusValidator(7)
	current := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	validator.SetClock(func() time.Time { return current })

	validator.RecordClaim("anon-1")
	assert.False(t, validator.CanClaimToday("anon-1"))

	// One minute later the calendar day has rolled over
	current = time.Date(2026, 3, 16, 0, 0, 1, 0, time.UTC)
	assert.True(t, validator.CanClaimToday("anon-1"))
	assert.Equal(t, time.Duration(0), validator.TimeUntilNextClaim("anon-1"))
}

func TestBonusValidator_ResetIsCalendarDayNotElapsedTime(t *testing.T) {
	validator := NewBonusValidator(7)
	current := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)
	validator.SetClock(func() time.Time { return current })

	validator.RecordClaim("anon-1")

	// 23 hours later, same behavior as any next-day instant: the day
	// changed, so the claim is allowed even though <24h elapsed
	current = current.Add(23 * time.Hour)
	assert.True(t, validator.CanClaimToday("anon-1"))
}

func TestBonusValidator_TimeUntilNextClaim(t *testing.T) {
	validator := NewBonusValidator(7)
	current := time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC)
	validator.SetClock(func() time.Time { return current })

	validator.RecordClaim("anon-1")

	assert.Equal(t, 6*time.Hour, validator.TimeUntilNextClaim("anon-1"))
}

func TestBonusValidator_NonUTCClockNormalized(t *testing.T) {
	validator := NewBonusValidator(7)
	// 23:30 on Mar 15 in UTC+2 is 21:30 UTC, still Mar 15
	loc := time.FixedZone("UTC+2", 2*60*60)
	current := time.Date(2026, 3, 15, 23, 30, 0, 0, loc)
	validator.SetClock(func() time.Time { return current })

	validator.RecordClaim("anon-1")

	// 01:00 Mar 16 in UTC+2 is 23:00 UTC on Mar 15: same UTC day
	current = time.Date(2026, 3, 16, 1, 0, 0, 0, loc)
	assert.False(t, validator.CanClaimToday("anon-1"))

	// 03:00 Mar 16 in UTC+2 is 01:00 UTC on Mar 16: new UTC day
	current = time.Date(2026, 3, 16, 3, 0, 0, 0, loc)
	assert.True(t, validator.CanClaimToday("anon-1"))
}

func TestBonusValidator_Cleanup(t *testing.T) {
	validator := NewBonusValidator(7)
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	validator.SetClock(func() time.Time { return current })

	validator.RecordClaim("anon-old")

	// Five days later: still within retention
	current = current.AddDate(0, 0, 5)
	validator.RecordClaim("anon-recent")
	assert.Equal(t, 0, validator.Cleanup())
	assert.Equal(t, 2, validator.Size())

	// Ten days after the first claim: only the old record expires
	current = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, validator.Cleanup())
	assert.Equal(t, 1, validator.Size())

	// The evicted user can claim again
	assert.True(t, validator.CanClaimToday("anon-old"))
}

func TestBonusValidator_RecordClaimOverwrites(t *testing.T) {
	validator := NewBonusValidator(7)
	current := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	validator.SetClock(func() time.Time { return current })

	validator.RecordClaim("anon-1")
	current = current.AddDate(0, 0, 1)
	validator.RecordClaim("anon-1")

	// Only one record per user regardless of claim count
	assert.Equal(t, 1, validator.Size())
	assert.False(t, validator.CanClaimToday("anon-1"))
}

func TestUntilNextUTCMidnight(t *testing.T) {
	now := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, 5*time.Hour+30*time.Minute, UntilNextUTCMidnight(now))

	// Exactly at midnight the full day remains
	midnight := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24*time.Hour, UntilNextUTCMidnight(midnight))
}

func TestSameUTCDay(t *testing.T) {
	a := time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameUTCDay(a, b))
	assert.False(t, SameUTCDay(b, c))
}
