package repository

import (
	"context"
	"fmt"

	"creditsvc/database"
	"creditsvc/models"

	"github.com/jackc/pgx/v5"
)

// CreditsRepository implements the service.CreditsRepository interface
type CreditsRepository struct {
	q queryable
}

// NewCreditsRepository creates a new credits repository
func NewCreditsRepository(db *database.DB) *CreditsRepository {
	return &CreditsRepository{q: db.Pool}
}

// newCreditsRepositoryWithTx creates a new credits repository with a transaction
func newCreditsRepositoryWithTx(tx queryable) *CreditsRepository {
	return &CreditsRepository{q: tx}
}

// GetByAnonID retrieves the credits record for a user
func (r *CreditsRepository) GetByAnonID(ctx context.Context, anonID string) (*models.Credits, error) {
	return r.get(ctx, anonID, false)
}

// GetByAnonIDForUpdate retrieves the credits record and locks its row for
// the remainder of the transaction. Mutations on the same anonID serialize
// on this lock so the balance check and the ledger write act as one unit.
func (r *CreditsRepository) GetByAnonIDForUpdate(ctx context.Context, anonID string) (*models.Credits, error) {
	return r.get(ctx, anonID, true)
}

func (r *CreditsRepository) get(ctx context.Context, anonID string, forUpdate bool) (*models.Credits, error) {
	query := `
		SELECT anon_id, balance, updated_at
		FROM credits
		WHERE anon_id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var credits models.Credits
	err := r.q.QueryRow(ctx, query, anonID).Scan(
		&credits.AnonID,
		&credits.Balance,
		&credits.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credits for %s: %w", anonID, err)
	}

	return &credits, nil
}

// Create creates a credits record with the given starting balance
func (r *CreditsRepository) Create(ctx context.Context, anonID string, balance int64) (*models.Credits, error) {
	query := `
		INSERT INTO credits (anon_id, balance)
		VALUES ($1, $2)
		RETURNING anon_id, balance, updated_at
	`

	var credits models.Credits
	err := r.q.QueryRow(ctx, query, anonID, balance).Scan(
		&credits.AnonID,
		&credits.Balance,
		&credits.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create credits for %s: %w", anonID, err)
	}

	return &credits, nil
}

// UpdateBalance sets the denormalized balance for a user
func (r *CreditsRepository) UpdateBalance(ctx context.Context, anonID string, newBalance int64) error {
	query := `
		UPDATE credits
		SET balance = $1, updated_at = NOW()
		WHERE anon_id = $2
	`

	result, err := r.q.Exec(ctx, query, newBalance, anonID)
	if err != nil {
		return fmt.Errorf("failed to update balance for %s: %w", anonID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("credits record for %s not found", anonID)
	}

	return nil
}
