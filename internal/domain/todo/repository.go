package todo

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for todo repository operations
type Repository interface {
	Create(ctx context.Context, t *Todo) error
	GetByID(ctx context.Context, todoID uuid.UUID) (*Todo, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter *Filter) ([]*Todo, int64, error)
	Update(ctx context.Context, t *Todo) error
	Delete(ctx context.Context, todoID uuid.UUID) error
}
