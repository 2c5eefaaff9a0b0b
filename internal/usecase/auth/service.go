package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todo-backend/internal/config"
	domainUser "todo-backend/internal/domain/user"
	"todo-backend/internal/logger"
	"todo-backend/internal/mailer"
	appErrors "todo-backend/pkg/errors"
	"todo-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// sessionTTL is the default bearer token lifetime.
	sessionTTL = 24 * time.Hour
	// rememberMeTTL applies when the remember-me flag is set on login.
	rememberMeTTL = 7 * 24 * time.Hour

	mailTimeout = 10 * time.Second
)

// Service orchestrates the account lifecycle: registration, login, logout,
// email verification and the password reset flow.
type Service struct {
	userRepo        domainUser.Repository
	bearerTokenRepo domainUser.BearerTokenRepository
	notifier        mailer.Notifier
	config          *config.Config
}

// NewService creates a new account lifecycle service. notifier may be nil
// when email delivery is disabled.
func NewService(
	userRepo domainUser.Repository,
	bearerTokenRepo domainUser.BearerTokenRepository,
	notifier mailer.Notifier,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo:        userRepo,
		bearerTokenRepo: bearerTokenRepo,
		notifier:        notifier,
		config:          cfg,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domainUser.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordHashed: hashedPassword,
	}
	token := &domainUser.EmailVerificationToken{
		Email:             req.Email,
		VerificationToken: uuid.New().String(),
	}

	// User and verification token are written in one transaction; a failed
	// token write leaves no user row behind.
	if err := s.userRepo.CreateWithVerificationToken(ctx, user, token); err != nil {
		if errors.Is(err, domainUser.ErrUserAlreadyExists) {
			logger.Warn("Registration attempt with existing email",
				zap.String("email", req.Email),
				zap.String("event", "registration_failed_duplicate_email"),
			)
			return nil, appErrors.ErrUserAlreadyExists
		}
		return nil, err
	}

	s.dispatchMail(user.Email, token.VerificationToken, "verification_email", func(ctx context.Context) error {
		return s.notifier.SendVerificationEmail(ctx, user.Email, token.VerificationToken)
	})

	logger.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("username", user.Username),
		zap.String("event", "user_registered"),
	)

	return ToUserResponse(user), nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	// Unknown email and wrong password collapse to the same generic error so
	// callers cannot tell which part failed.
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "login_failed_unknown_email"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(user.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	ttl := sessionTTL
	if req.RememberMeToken {
		ttl = rememberMeTTL
	}

	signed, expiresAt, err := utils.GenerateToken(user.ID, user.Email, s.config.JWT.Secret, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	bearerToken := &domainUser.BearerToken{
		UserID:    user.ID,
		Token:     signed,
		ExpiresAt: expiresAt,
	}
	if err := s.bearerTokenRepo.Create(ctx, bearerToken); err != nil {
		return nil, fmt.Errorf("failed to store bearer token: %w", err)
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.Bool("remember_me", req.RememberMeToken),
		zap.String("event", "login_success"),
	)

	return &TokenResponse{
		Type:      "bearer",
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the presented bearer token. It is idempotent from the
// caller's perspective and always succeeds once reached.
func (s *Service) Logout(ctx context.Context, token string) error {
	bearerToken, err := s.bearerTokenRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainUser.ErrBearerTokenNotFound) {
			return nil
		}
		return err
	}

	if err := s.bearerTokenRepo.Revoke(ctx, bearerToken.ID); err != nil {
		return fmt.Errorf("failed to revoke bearer token: %w", err)
	}

	logger.Info("Bearer token revoked",
		zap.String("user_id", bearerToken.UserID.String()),
		zap.String("token_id", bearerToken.ID.String()),
		zap.String("event", "logout"),
	)

	return nil
}

func (s *Service) VerifyEmail(ctx context.Context, req *VerifyEmailRequest) (*VerificationResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	record, err := s.userRepo.GetVerificationTokenByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrVerificationTokenNotFound) {
			return nil, appErrors.ErrVerificationTokenNotFound
		}
		return nil, err
	}

	// The record exists but the proof does not match: a validation failure,
	// distinct from not-found.
	if req.VerificationToken != record.VerificationToken {
		logger.Warn("Email verification with mismatched token",
			zap.String("email", req.Email),
			zap.String("event", "email_verification_failed_token_mismatch"),
		)
		return nil, appErrors.ErrVerificationTokenMismatch
	}

	// Re-verifying an already-verified email re-stamps the timestamp and
	// succeeds again.
	now := time.Now()
	record.IsVerified = true
	record.VerifiedAt = &now
	if err := s.userRepo.SaveVerificationToken(ctx, record); err != nil {
		return nil, err
	}

	logger.Info("Email verified",
		zap.String("user_id", record.UserID.String()),
		zap.String("email", record.Email),
		zap.String("event", "email_verified"),
	)

	return ToVerificationResponse(record), nil
}

// ForgotPassword issues a fresh password reset token for the account behind
// email. Prior outstanding tokens are not invalidated; multiple valid reset
// tokens may coexist.
func (s *Service) ForgotPassword(ctx context.Context, email string) (bool, error) {
	if !utils.IsValidEmail(email) {
		return false, appErrors.NewAppError("VALIDATION_ERROR", "Invalid email format", nil)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return false, appErrors.ErrUserNotFound
		}
		return false, err
	}

	resetToken := &domainUser.PasswordResetToken{
		UserID: user.ID,
		Token:  uuid.New().String(),
	}
	if err := s.userRepo.CreatePasswordResetToken(ctx, resetToken); err != nil {
		return false, err
	}

	s.dispatchMail(user.Email, resetToken.Token, "password_reset_email", func(ctx context.Context) error {
		return s.notifier.SendPasswordResetEmail(ctx, user.Email, resetToken.Token)
	})

	logger.Info("Password reset token issued",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("token_id", resetToken.ID.String()),
		zap.String("event", "password_reset_token_issued"),
	)

	return true, nil
}

func (s *Service) ResetPassword(ctx context.Context, req *ResetPasswordRequest) (bool, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return false, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	resetToken, err := s.userRepo.GetPasswordResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, domainUser.ErrResetTokenNotFound) {
			logger.Warn("Password reset with unknown token",
				zap.String("event", "password_reset_failed_unknown_token"),
			)
			return false, appErrors.ErrResetTokenNotFound
		}
		return false, err
	}

	// A token row pointing at a missing user is an inconsistency, reported
	// as a bad request rather than not-found.
	user, err := s.userRepo.GetByID(ctx, resetToken.UserID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return false, appErrors.NewAppError("INCONSISTENT_STATE", "user for reset token not found", nil)
		}
		return false, err
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return false, err
	}

	// The reset token row is not consumed; it stays valid after use.
	logger.Info("Password reset successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("token_id", resetToken.ID.String()),
		zap.String("event", "password_reset_success"),
	)

	return true, nil
}

// dispatchMail sends an email in the background. The surrounding request
// never waits on or fails because of delivery.
func (s *Service) dispatchMail(email, token, kind string, send func(ctx context.Context) error) {
	if s.notifier == nil {
		logger.Debug("Mail delivery disabled, skipping",
			zap.String("email", email),
			zap.String("kind", kind),
			zap.String("token", token),
		)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			logger.Error("Failed to send email",
				zap.String("email", email),
				zap.String("kind", kind),
				zap.Error(err),
			)
		}
	}()
}
