package models

import (
	"time"

	"github.com/google/uuid"
)

// TodoModel represents the database model for Todo
type TodoModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:varchar(255);not null"`
	Content   *string   `gorm:"type:text"`
	Slug      *string   `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (TodoModel) TableName() string {
	return "todos"
}
