package auth

import (
	"time"

	"github.com/google/uuid"
	domainUser "todo-backend/internal/domain/user"
)

type RegisterRequest struct {
	Email                string `json:"email" validate:"required,email"`
	Username             string `json:"username" validate:"required,min=3,max=100"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	RememberMeToken bool   `json:"rememberMeToken"`
}

type VerifyEmailRequest struct {
	Email             string `json:"email" validate:"required,email"`
	VerificationToken string `json:"verificationToken" validate:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// UserResponse is the outward representation of a user. The password hash is
// never serialized.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenResponse is the serialized bearer token issued on login.
type TokenResponse struct {
	Type      string    `json:"type"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerificationResponse is the updated email verification record.
type VerificationResponse struct {
	UserID     uuid.UUID  `json:"user_id"`
	Email      string     `json:"email"`
	IsVerified bool       `json:"is_verified"`
	VerifiedAt *time.Time `json:"verified_at"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToVerificationResponse(t *domainUser.EmailVerificationToken) *VerificationResponse {
	if t == nil {
		return nil
	}
	return &VerificationResponse{
		UserID:     t.UserID,
		Email:      t.Email,
		IsVerified: t.IsVerified,
		VerifiedAt: t.VerifiedAt,
	}
}
