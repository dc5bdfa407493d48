package service

import (
	"context"

	"creditsvc/events"
	"creditsvc/models"
)

// UserRepository defines the interface for profile data access
type UserRepository interface {
	// GetByAnonID retrieves a profile by its anonymous ID
	GetByAnonID(ctx context.Context, anonID string) (*models.User, error)

	// Create creates a new profile with all optional fields unset
	Create(ctx context.Context, anonID string) (*models.User, error)

	// Update applies a partial update; nil fields keep their stored value.
	// Returns nil if no profile exists for anonID.
	Update(ctx context.Context, anonID string, name, avatarURL *string) (*models.User, error)

	// LinkUser attaches an authenticated user id to a profile
	LinkUser(ctx context.Context, anonID, userID string) (*models.User, error)
}

// CreditsRepository defines the interface for balance data access
type CreditsRepository interface {
	// GetByAnonID retrieves the credits record for a user
	GetByAnonID(ctx context.Context, anonID string) (*models.Credits, error)

	// GetByAnonIDForUpdate retrieves the credits record and locks its row
	// until the enclosing transaction ends
	GetByAnonIDForUpdate(ctx context.Context, anonID string) (*models.Credits, error)

	// Create creates a credits record with the given starting balance
	Create(ctx context.Context, anonID string, balance int64) (*models.Credits, error)

	// UpdateBalance sets the denormalized balance for a user
	UpdateBalance(ctx context.Context, anonID string, newBalance int64) error
}

// LedgerRepository defines the interface for the append-only audit trail
type LedgerRepository interface {
	// Append writes a new ledger entry
	Append(ctx context.Context, entry *models.LedgerEntry) error

	// GetByAnonID returns the most recent entries for a user, newest first
	GetByAnonID(ctx context.Context, anonID string, limit int) ([]*models.LedgerEntry, error)

	// GetLastDailyBonus returns the newest daily_bonus entry, or nil
	GetLastDailyBonus(ctx context.Context, anonID string) (*models.LedgerEntry, error)

	// SumAmounts returns the sum of all entry amounts for a user
	SumAmounts(ctx context.Context, anonID string) (int64, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork provides transactional access to all repositories
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
	UserRepository() UserRepository
	CreditsRepository() CreditsRepository
	LedgerRepository() LedgerRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// ProfileService defines the interface for identity operations
type ProfileService interface {
	// GetOrCreate returns the existing profile or creates an empty one
	GetOrCreate(ctx context.Context, anonID string) (*models.User, error)

	// Update applies a partial profile update
	Update(ctx context.Context, anonID string, name, avatarURL *string) (*models.User, error)

	// LinkUser attaches an authenticated user id to a profile
	LinkUser(ctx context.Context, anonID, userID string) (*models.User, error)
}

// CreditService defines the interface for balance-changing operations.
// It is the single authority for balance mutation: every mutation writes
// exactly one ledger entry and updates the denormalized balance within
// the same transaction.
type CreditService interface {
	// GetBalance returns the current balance and recent ledger history
	GetBalance(ctx context.Context, anonID string) (*models.CreditSummary, error)

	// EnsureInitialized idempotently provisions a credits record with the
	// given starting balance, recording an initial ledger entry
	EnsureInitialized(ctx context.Context, anonID string, initialAmount int64) (*models.Credits, error)

	// ClaimDailyBonus grants the daily bonus, at most once per UTC calendar day
	ClaimDailyBonus(ctx context.Context, anonID string, bonusAmount int64) (*models.CreditSummary, error)

	// SpendCredits debits a positive amount with a mandatory reason,
	// never allowing the balance to go negative
	SpendCredits(ctx context.Context, anonID string, amount int64, reason string) (*models.CreditSummary, error)

	// AdjustCredits applies a signed administrative correction with no
	// lower bound on the resulting balance
	AdjustCredits(ctx context.Context, anonID string, amount int64, reason string) (*models.CreditSummary, error)
}
