package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todo-backend/internal/domain/user"
	"todo-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BearerTokenRepository implements domain user.BearerTokenRepository interface
type BearerTokenRepository struct {
	db *DB
}

// NewBearerTokenRepository creates a new bearer token repository
func NewBearerTokenRepository(db *DB) user.BearerTokenRepository {
	return &BearerTokenRepository{db: db}
}

func (r *BearerTokenRepository) Create(ctx context.Context, t *user.BearerToken) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()

	dbModel := toBearerTokenModel(t)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create bearer token: %w", err)
	}

	return nil
}

func (r *BearerTokenRepository) GetByToken(ctx context.Context, token string) (*user.BearerToken, error) {
	var dbModel models.BearerTokenModel
	err := r.db.DB.WithContext(ctx).Where("token = ?", token).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrBearerTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bearer token: %w", err)
	}

	return toBearerTokenEntity(&dbModel), nil
}

func (r *BearerTokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	now := time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.BearerTokenModel{}).
		Where("id = ?", tokenID).
		Updates(map[string]interface{}{
			"revoked":    true,
			"revoked_at": now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to revoke bearer token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrBearerTokenNotFound
	}

	return nil
}

func toBearerTokenModel(t *user.BearerToken) *models.BearerTokenModel {
	return &models.BearerTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		Revoked:   t.Revoked,
		RevokedAt: t.RevokedAt,
		CreatedAt: t.CreatedAt,
	}
}

func toBearerTokenEntity(m *models.BearerTokenModel) *user.BearerToken {
	return &user.BearerToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		Revoked:   m.Revoked,
		RevokedAt: m.RevokedAt,
		CreatedAt: m.CreatedAt,
	}
}
