package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user and credential-token persistence
type Repository interface {
	// CreateWithVerificationToken inserts the user and its companion email
	// verification token atomically. If either write fails, neither row
	// remains persisted.
	CreateWithVerificationToken(ctx context.Context, u *User, t *EmailVerificationToken) error

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error

	GetVerificationTokenByEmail(ctx context.Context, email string) (*EmailVerificationToken, error)
	SaveVerificationToken(ctx context.Context, t *EmailVerificationToken) error

	CreatePasswordResetToken(ctx context.Context, t *PasswordResetToken) error
	GetPasswordResetToken(ctx context.Context, token string) (*PasswordResetToken, error)
}

// BearerTokenRepository defines the interface for login session tokens
type BearerTokenRepository interface {
	Create(ctx context.Context, t *BearerToken) error
	GetByToken(ctx context.Context, token string) (*BearerToken, error)
	Revoke(ctx context.Context, tokenID uuid.UUID) error
}
