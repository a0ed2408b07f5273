package domain

import "time"

// TodoStatus represents the current state of a todo
type TodoStatus string

const (
	TodoStatusPending   TodoStatus = "pending"
	TodoStatusCompleted TodoStatus = "completed"
)

// EmailTodo is a to-do item attached to an individual cached email. The
// referenced message must already be cached on some board.
type EmailTodo struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	UserID            string     `json:"user_id" gorm:"index;not null"`
	ProviderMessageID string     `json:"email_id" gorm:"index;not null"`
	Title             string     `json:"title" gorm:"not null"`
	Description       string     `json:"description,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	Status            TodoStatus `json:"status" gorm:"default:pending"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (EmailTodo) TableName() string {
	return "email_todos"
}
