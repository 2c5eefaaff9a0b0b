package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"todo-backend/internal/domain/user"
	"todo-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository implements domain user.Repository interface
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateWithVerificationToken(ctx context.Context, u *user.User, t *user.EmailVerificationToken) error {
	now := time.Now()
	u.ID = uuid.New()
	u.CreatedAt = now
	u.UpdatedAt = now

	userModel := toUserModel(u)

	t.ID = uuid.New()
	t.UserID = u.ID
	t.CreatedAt = now
	t.UpdatedAt = now
	tokenModel := toVerificationTokenModel(t)

	// Single transaction: the user insert is rolled back when the token
	// insert fails, so no orphan user row can remain.
	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userModel).Error; err != nil {
			return err
		}
		if err := tx.Create(tokenModel).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "duplicate key") && strings.Contains(errStr, "email") {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to register user: %w", err)
	}

	u.CreatedAt = userModel.CreatedAt
	u.UpdatedAt = userModel.UpdatedAt

	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where("email = ?", email).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hashed": passwordHash,
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) GetVerificationTokenByEmail(ctx context.Context, email string) (*user.EmailVerificationToken, error) {
	var dbModel models.EmailVerificationTokenModel
	// First match by email is authoritative; uniqueness is not enforced by
	// the store.
	err := r.db.DB.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at ASC").
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrVerificationTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification token: %w", err)
	}

	return toVerificationTokenEntity(&dbModel), nil
}

func (r *UserRepository) SaveVerificationToken(ctx context.Context, t *user.EmailVerificationToken) error {
	t.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.EmailVerificationTokenModel{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"is_verified": t.IsVerified,
			"verified_at": t.VerifiedAt,
			"updated_at":  t.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save verification token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrVerificationTokenNotFound
	}

	return nil
}

func (r *UserRepository) CreatePasswordResetToken(ctx context.Context, t *user.PasswordResetToken) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()

	dbModel := toResetTokenModel(t)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create password reset token: %w", err)
	}

	return nil
}

func (r *UserRepository) GetPasswordResetToken(ctx context.Context, token string) (*user.PasswordResetToken, error) {
	var dbModel models.PasswordResetTokenModel
	err := r.db.DB.WithContext(ctx).Where("token = ?", token).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrResetTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get password reset token: %w", err)
	}

	return toResetTokenEntity(&dbModel), nil
}

func toUserModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHashed: u.PasswordHashed,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *user.User {
	return &user.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHashed: m.PasswordHashed,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toVerificationTokenModel(t *user.EmailVerificationToken) *models.EmailVerificationTokenModel {
	return &models.EmailVerificationTokenModel{
		ID:                t.ID,
		UserID:            t.UserID,
		Email:             t.Email,
		VerificationToken: t.VerificationToken,
		IsVerified:        t.IsVerified,
		VerifiedAt:        t.VerifiedAt,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func toVerificationTokenEntity(m *models.EmailVerificationTokenModel) *user.EmailVerificationToken {
	return &user.EmailVerificationToken{
		ID:                m.ID,
		UserID:            m.UserID,
		Email:             m.Email,
		VerificationToken: m.VerificationToken,
		IsVerified:        m.IsVerified,
		VerifiedAt:        m.VerifiedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toResetTokenModel(t *user.PasswordResetToken) *models.PasswordResetTokenModel {
	return &models.PasswordResetTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		Token:     t.Token,
		CreatedAt: t.CreatedAt,
	}
}

func toResetTokenEntity(m *models.PasswordResetTokenModel) *user.PasswordResetToken {
	return &user.PasswordResetToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		CreatedAt: m.CreatedAt,
	}
}
