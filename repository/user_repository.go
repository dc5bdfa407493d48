package repository

import (
	"context"
	"fmt"

	"creditsvc/database"
	"creditsvc/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByAnonID retrieves a profile by its anonymous ID
func (r *UserRepository) GetByAnonID(ctx context.Context, anonID string) (*models.User, error) {
	query := `
		SELECT anon_id, user_id, name, avatar_url, created_at, updated_at
		FROM users
		WHERE anon_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, anonID).Scan(
		&user.AnonID,
		&user.UserID,
		&user.Name,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", anonID, err)
	}

	return &user, nil
}

// Create creates a new profile with all optional fields unset
func (r *UserRepository) Create(ctx context.Context, anonID string) (*models.User, error) {
	query := `
		INSERT INTO users (anon_id)
		VALUES ($1)
		RETURNING anon_id, user_id, name, avatar_url, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, anonID).Scan(
		&user.AnonID,
		&user.UserID,
		&user.Name,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", anonID, err)
	}

	return &user, nil
}

// Update applies a partial update; nil fields keep their stored value.
// Returns nil if no profile exists for anonID.
func (r *UserRepository) Update(ctx context.Context, anonID string, name, avatarURL *string) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($1, name),
		    avatar_url = COALESCE($2, avatar_url),
		    updated_at = NOW()
		WHERE anon_id = $3
		RETURNING anon_id, user_id, name, avatar_url, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, name, avatarURL, anonID).Scan(
		&user.AnonID,
		&user.UserID,
		&user.Name,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", anonID, err)
	}

	return &user, nil
}

// LinkUser attaches an authenticated user id to a profile.
// Returns nil if no profile exists for anonID.
func (r *UserRepository) LinkUser(ctx context.Context, anonID, userID string) (*models.User, error) {
	query := `
		UPDATE users
		SET user_id = $1, updated_at = NOW()
		WHERE anon_id = $2
		RETURNING anon_id, user_id, name, avatar_url, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, userID, anonID).Scan(
		&user.AnonID,
		&user.UserID,
		&user.Name,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to link user %s: %w", anonID, err)
	}

	return &user, nil
}
