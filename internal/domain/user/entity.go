package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user entity in the domain
type User struct {
	ID             uuid.UUID
	Username       string
	Email          string
	PasswordHashed string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EmailVerificationToken is the one-time proof sent to a new user's mailbox.
// At most one row per email is meaningful for matching; the first match by
// email is authoritative.
type EmailVerificationToken struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Email             string
	VerificationToken string
	IsVerified        bool
	VerifiedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PasswordResetToken represents a password reset token entity. Rows are read
// on reset but never consumed; multiple outstanding tokens per user may
// coexist.
type PasswordResetToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
}

// BearerToken is a persisted, revocable login session token.
type BearerToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Revoked   bool
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsExpired checks if the bearer token is expired
func (bt *BearerToken) IsExpired() bool {
	return time.Now().After(bt.ExpiresAt)
}

// IsActive checks if the bearer token is active (not revoked and not expired)
func (bt *BearerToken) IsActive() bool {
	return !bt.Revoked && !bt.IsExpired()
}
