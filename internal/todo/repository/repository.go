package repository

import "mailboard-backend/internal/todo/domain"

// TodoRepository defines the interface for email todo data access
type TodoRepository interface {
	// Create creates a new todo
	Create(todo *domain.EmailTodo) error

	// FindByID finds a todo by its ID
	FindByID(id string) (*domain.EmailTodo, error)

	// FindByUserID finds all todos for a user, optionally filtered by status
	FindByUserID(userID string, status *domain.TodoStatus) ([]*domain.EmailTodo, error)

	// FindByMessageID finds all of a user's todos attached to one email
	FindByMessageID(userID, providerMessageID string) ([]*domain.EmailTodo, error)

	// Update updates an existing todo
	Update(todo *domain.EmailTodo) error

	// Delete deletes a todo by ID
	Delete(id string) error
}
