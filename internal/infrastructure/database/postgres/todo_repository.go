package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
	"todo-backend/internal/domain/todo"
	"todo-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TodoRepository implements domain todo.Repository interface
type TodoRepository struct {
	db *DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) todo.Repository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, t *todo.Todo) error {
	now := time.Now()
	t.ID = uuid.New()
	t.CreatedAt = now
	t.UpdatedAt = now

	dbModel := toTodoModel(t)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	t.CreatedAt = dbModel.CreatedAt
	t.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *TodoRepository) GetByID(ctx context.Context, todoID uuid.UUID) (*todo.Todo, error) {
	var dbModel models.TodoModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", todoID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, todo.ErrTodoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return toTodoEntity(&dbModel), nil
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter *todo.Filter) ([]*todo.Todo, int64, error) {
	var dbModels []models.TodoModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.TodoModel{}).
		Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	offset := (page - 1) * perPage

	err := db.Order("created_at DESC").
		Offset(offset).
		Limit(perPage).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}

	todos := make([]*todo.Todo, len(dbModels))
	for i := range dbModels {
		todos[i] = toTodoEntity(&dbModels[i])
	}

	return todos, total, nil
}

func (r *TodoRepository) Update(ctx context.Context, t *todo.Todo) error {
	t.UpdatedAt = time.Now()

	result := r.db.DB.WithContext(ctx).Model(&models.TodoModel{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"title":      t.Title,
			"content":    t.Content,
			"updated_at": t.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return todo.ErrTodoNotFound
	}

	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, todoID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Delete(&models.TodoModel{}, "id = ?", todoID)

	if result.Error != nil {
		return fmt.Errorf("failed to delete todo: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return todo.ErrTodoNotFound
	}

	return nil
}

func toTodoModel(t *todo.Todo) *models.TodoModel {
	return &models.TodoModel{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Content:   t.Content,
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTodoEntity(m *models.TodoModel) *todo.Todo {
	return &todo.Todo{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Content:   m.Content,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
