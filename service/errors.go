package service

import (
	"fmt"
	"time"
)

// NotFoundError indicates that no record exists for the given anonymous id
type NotFoundError struct {
	Resource string
	AnonID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s for %s not found", e.Resource, e.AnonID)
}

// ValidationError indicates malformed or out-of-range input. It is always
// a deterministic outcome of the request itself, never of stored state.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// InsufficientBalanceError indicates a spend would drive the balance negative
type InsufficientBalanceError struct {
	Balance   int64
	Requested int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Balance, e.Requested)
}

// RateLimitedError indicates the daily bonus was already claimed today.
// RetryAfter is the duration until the next UTC midnight.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("daily bonus already claimed today, retry in %s", e.RetryAfter)
}
