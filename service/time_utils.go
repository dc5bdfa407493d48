package service

import (
	"time"
)

// utcDayFormat is the calendar-day key used for claim bookkeeping
const utcDayFormat = "2006-01-02"

// UTCDay returns the calendar day of t in UTC as YYYY-MM-DD
func UTCDay(t time.Time) string {
	return t.UTC().Format(utcDayFormat)
}

// SameUTCDay reports whether a and b fall on the same UTC calendar day
func SameUTCDay(a, b time.Time) bool {
	return UTCDay(a) == UTCDay(b)
}

// UntilNextUTCMidnight returns the duration from now until the next UTC
// midnight, when daily bonus eligibility resets
func UntilNextUTCMidnight(now time.Time) time.Duration {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return midnight.Sub(now)
}
