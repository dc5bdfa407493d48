package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"creditsvc/models"
)

type creditService struct {
	uowFactory   UnitOfWorkFactory
	validator    *BonusValidator
	historyLimit int
	now          func() time.Time
}

// NewCreditService creates a new credit service. historyLimit bounds the
// ledger slice returned with every balance.
func NewCreditService(uowFactory UnitOfWorkFactory, validator *BonusValidator, historyLimit int) CreditService {
	return &creditService{
		uowFactory:   uowFactory,
		validator:    validator,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// GetBalance returns the current balance and recent ledger history
func (s *creditService) GetBalance(ctx context.Context, anonID string) (*models.CreditSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // Read-only, nothing to commit

	credits, err := uow.CreditsRepository().GetByAnonID(ctx, anonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credits: %w", err)
	}
	if credits == nil {
		return nil, &NotFoundError{Resource: "credits", AnonID: anonID}
	}

	return s.summarize(ctx, uow, anonID, credits.Balance)
}

// EnsureInitialized idempotently provisions a credits record. An existing
// record is returned unchanged; a new one is created with initialAmount
// and exactly one initial ledger entry.
func (s *creditService) EnsureInitialized(ctx context.Context, anonID string, initialAmount int64) (*models.Credits, error) {
	if initialAmount < 0 {
		return nil, &ValidationError{Reason: "initial amount must not be negative"}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	credits, err := uow.CreditsRepository().GetByAnonID(ctx, anonID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing credits: %w", err)
	}

	// Already provisioned, return as-is
	if credits != nil {
		return credits, nil
	}

	// Database primary key on anon_id prevents duplicate records under
	// concurrent initialization
	credits, err = uow.CreditsRepository().Create(ctx, anonID, initialAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to create credits: %w", err)
	}

	entry := &models.LedgerEntry{
		AnonID: anonID,
		Amount: initialAmount,
		Type:   models.EntryTypeInitial,
	}
	if err := RecordLedgerEntry(ctx, uow, entry, 0, initialAmount); err != nil {
		return nil, fmt.Errorf("failed to record initial grant: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return credits, nil
}

// ClaimDailyBonus grants bonusAmount at most once per UTC calendar day.
// The in-memory validator rejects repeat claims before any database work;
// the newest daily_bonus ledger entry is re-checked inside the
// transaction as the authoritative guard.
func (s *creditService) ClaimDailyBonus(ctx context.Context, anonID string, bonusAmount int64) (*models.CreditSummary, error) {
	if bonusAmount <= 0 {
		return nil, &ValidationError{Reason: "bonus amount must be positive"}
	}

	if !s.validator.CanClaimToday(anonID) {
		return nil, &RateLimitedError{RetryAfter: s.validator.TimeUntilNextClaim(anonID)}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	credits, err := uow.CreditsRepository().GetByAnonIDForUpdate(ctx, anonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credits: %w", err)
	}
	if credits == nil {
		return nil, &NotFoundError{Resource: "credits", AnonID: anonID}
	}

	// Authoritative check: the validator is process-local and may be
	// stale after a restart or behind another instance
	now := s.now()
	last, err := uow.LedgerRepository().GetLastDailyBonus(ctx, anonID)
	if err != nil {
		return nil, fmt.Errorf("failed to check last daily bonus: %w", err)
	}
	if last != nil && SameUTCDay(last.CreatedAt, now) {
		return nil, &RateLimitedError{RetryAfter: UntilNextUTCMidnight(now)}
	}

	newBalance := credits.Balance + bonusAmount

	entry := &models.LedgerEntry{
		AnonID: anonID,
		Amount: bonusAmount,
		Type:   models.EntryTypeDailyBonus,
	}
	if err := RecordLedgerEntry(ctx, uow, entry, credits.Balance, newBalance); err != nil {
		return nil, fmt.Errorf("failed to record bonus: %w", err)
	}

	if err := uow.CreditsRepository().UpdateBalance(ctx, anonID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	summary, err := s.summarize(ctx, uow, anonID, newBalance)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// The claim is durable now; the ledger write must never trail the
	// validator's bookkeeping
	s.validator.RecordClaim(anonID)

	return summary, nil
}

// SpendCredits debits amount from the balance, rejecting spends that
// would drive it negative
func (s *creditService) SpendCredits(ctx context.Context, anonID string, amount int64, reason string) (*models.CreditSummary, error) {
	if amount <= 0 {
		return nil, &ValidationError{Reason: "spend amount must be positive"}
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Reason: "spend reason is required"}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Row lock serializes concurrent spends for the same user, so the
	// balance check below cannot race with another debit
	credits, err := uow.CreditsRepository().GetByAnonIDForUpdate(ctx, anonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credits: %w", err)
	}
	if credits == nil {
		return nil, &NotFoundError{Resource: "credits", AnonID: anonID}
	}

	if credits.Balance-amount < 0 {
		return nil, &InsufficientBalanceError{Balance: credits.Balance, Requested: amount}
	}

	newBalance := credits.Balance - amount

	entry := &models.LedgerEntry{
		AnonID: anonID,
		Amount: -amount,
		Type:   models.EntryTypeSpend,
		Reason: &reason,
	}
	if err := RecordLedgerEntry(ctx, uow, entry, credits.Balance, newBalance); err != nil {
		return nil, fmt.Errorf("failed to record spend: %w", err)
	}

	if err := uow.CreditsRepository().UpdateBalance(ctx, anonID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	summary, err := s.summarize(ctx, uow, anonID, newBalance)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return summary, nil
}

// AdjustCredits applies a signed administrative correction. Unlike
// SpendCredits there is no floor on the resulting balance: adjust is the
// superset primitive and spend the validated, sign-constrained
// convenience on top of the same storage operation.
func (s *creditService) AdjustCredits(ctx context.Context, anonID string, amount int64, reason string) (*models.CreditSummary, error) {
	if amount == 0 {
		return nil, &ValidationError{Reason: "adjust amount must be non-zero"}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	credits, err := uow.CreditsRepository().GetByAnonIDForUpdate(ctx, anonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get credits: %w", err)
	}
	if credits == nil {
		return nil, &NotFoundError{Resource: "credits", AnonID: anonID}
	}

	newBalance := credits.Balance + amount

	entry := &models.LedgerEntry{
		AnonID: anonID,
		Amount: amount,
		Type:   models.EntryTypeAdjust,
	}
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		entry.Reason = &trimmed
	}
	if err := RecordLedgerEntry(ctx, uow, entry, credits.Balance, newBalance); err != nil {
		return nil, fmt.Errorf("failed to record adjustment: %w", err)
	}

	if err := uow.CreditsRepository().UpdateBalance(ctx, anonID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	summary, err := s.summarize(ctx, uow, anonID, newBalance)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return summary, nil
}

// summarize builds the standard operation result from the current unit of work
func (s *creditService) summarize(ctx context.Context, uow UnitOfWork, anonID string, balance int64) (*models.CreditSummary, error) {
	entries, err := uow.LedgerRepository().GetByAnonID(ctx, anonID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger history: %w", err)
	}

	return &models.CreditSummary{
		Balance: balance,
		Ledger:  entries,
	}, nil
}
