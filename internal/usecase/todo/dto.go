package todo

import (
	"time"

	"github.com/google/uuid"
	domainTodo "todo-backend/internal/domain/todo"
)

type CreateTodoRequest struct {
	Title   string  `json:"title" validate:"required,min=1,max=255"`
	Content *string `json:"content" validate:"omitempty,max=10000"`
}

type UpdateTodoRequest struct {
	Title   string  `json:"title" validate:"required,min=1,max=255"`
	Content *string `json:"content" validate:"omitempty,max=10000"`
}

type TodoResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content"`
	Slug      *string   `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

type TodoListResponse struct {
	Items []*TodoResponse `json:"items"`
	Meta  ListMeta        `json:"meta"`
}

func ToTodoResponse(t *domainTodo.Todo) *TodoResponse {
	if t == nil {
		return nil
	}
	return &TodoResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Title:     t.Title,
		Content:   t.Content,
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
