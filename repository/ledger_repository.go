package repository

import (
	"context"
	"fmt"

	"creditsvc/database"
	"creditsvc/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepository implements the service.LedgerRepository interface.
// The credit_ledger table is append-only; there is deliberately no update
// or delete operation here.
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Append writes a new ledger entry, generating its id and filling in the
// server-assigned creation timestamp
func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO credit_ledger (id, anon_id, amount, entry_type, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.ID,
		entry.AnonID,
		entry.Amount,
		entry.Type,
		entry.Reason,
	).Scan(&entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append ledger entry for %s: %w", entry.AnonID, err)
	}

	return nil
}

// GetByAnonID returns the most recent ledger entries for a user, newest first
func (r *LedgerRepository) GetByAnonID(ctx context.Context, anonID string, limit int) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, anon_id, amount, entry_type, reason, created_at
		FROM credit_ledger
		WHERE anon_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, anonID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger for %s: %w", anonID, err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.AnonID,
			&entry.Amount,
			&entry.Type,
			&entry.Reason,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}

// GetLastDailyBonus returns the newest daily_bonus entry for a user, or nil
// if the user has never claimed one. This is the authoritative record for
// claim eligibility.
func (r *LedgerRepository) GetLastDailyBonus(ctx context.Context, anonID string) (*models.LedgerEntry, error) {
	query := `
		SELECT id, anon_id, amount, entry_type, reason, created_at
		FROM credit_ledger
		WHERE anon_id = $1 AND entry_type = 'daily_bonus'
		ORDER BY created_at DESC
		LIMIT 1
	`

	var entry models.LedgerEntry
	err := r.q.QueryRow(ctx, query, anonID).Scan(
		&entry.ID,
		&entry.AnonID,
		&entry.Amount,
		&entry.Type,
		&entry.Reason,
		&entry.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last daily bonus for %s: %w", anonID, err)
	}

	return &entry, nil
}

// SumAmounts returns the sum of all ledger entry amounts for a user.
// The result must always equal the denormalized balance.
func (r *LedgerRepository) SumAmounts(ctx context.Context, anonID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM credit_ledger
		WHERE anon_id = $1
	`

	var sum int64
	if err := r.q.QueryRow(ctx, query, anonID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum ledger for %s: %w", anonID, err)
	}

	return sum, nil
}
