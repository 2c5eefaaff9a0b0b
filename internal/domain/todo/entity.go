package todo

import (
	"time"

	"github.com/google/uuid"
)

// Todo represents a todo note owned by exactly one user
type Todo struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Content   *string
	Slug      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter represents pagination options for listing a user's todos
type Filter struct {
	Page    int
	PerPage int
}
