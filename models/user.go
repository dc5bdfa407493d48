package models

import (
	"time"
)

// User represents an identity record keyed by the caller-generated
// anonymous identifier. The linked user id, display name and avatar are
// all optional and independent of the credit records.
type User struct {
	AnonID    string    `db:"anon_id"`
	UserID    *string   `db:"user_id"`
	Name      *string   `db:"name"`
	AvatarURL *string   `db:"avatar_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
