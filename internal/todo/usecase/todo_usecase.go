package usecase

import (
	"fmt"
	"time"

	boarddomain "mailboard-backend/internal/board/domain"
	boardrepo "mailboard-backend/internal/board/repository"
	"mailboard-backend/internal/todo/domain"
	"mailboard-backend/internal/todo/repository"

	"github.com/google/uuid"
)

// TodoUsecase manages todos attached to cached emails
type TodoUsecase interface {
	CreateTodo(userID, providerMessageID, title, description string, dueDate *time.Time) (*domain.EmailTodo, error)
	GetTodos(userID string, status *domain.TodoStatus) ([]*domain.EmailTodo, error)
	GetTodosByEmail(userID, providerMessageID string) ([]*domain.EmailTodo, error)
	UpdateTodo(userID string, todo *domain.EmailTodo) error
	CompleteTodo(userID, todoID string) error
	DeleteTodo(userID, todoID string) error
}

// todoUsecase implements TodoUsecase interface
type todoUsecase struct {
	todoRepo  repository.TodoRepository
	cacheRepo boardrepo.EmailCacheRepository
}

// NewTodoUsecase creates a new instance of todoUsecase
func NewTodoUsecase(todoRepo repository.TodoRepository, cacheRepo boardrepo.EmailCacheRepository) TodoUsecase {
	return &todoUsecase{
		todoRepo:  todoRepo,
		cacheRepo: cacheRepo,
	}
}

// CreateTodo attaches a todo to an email. The referenced message must be
// cached on some board; a dangling reference fails with ErrNotFound.
func (u *todoUsecase) CreateTodo(userID, providerMessageID, title, description string, dueDate *time.Time) (*domain.EmailTodo, error) {
	exists, err := u.cacheRepo.ExistsByProviderMessageID(providerMessageID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("email %s is not on any board: %w", providerMessageID, boarddomain.ErrNotFound)
	}

	todo := &domain.EmailTodo{
		ID:                uuid.New().String(),
		UserID:            userID,
		ProviderMessageID: providerMessageID,
		Title:             title,
		Description:       description,
		DueDate:           dueDate,
		Status:            domain.TodoStatusPending,
	}

	if err := u.todoRepo.Create(todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (u *todoUsecase) GetTodos(userID string, status *domain.TodoStatus) ([]*domain.EmailTodo, error) {
	return u.todoRepo.FindByUserID(userID, status)
}

func (u *todoUsecase) GetTodosByEmail(userID, providerMessageID string) ([]*domain.EmailTodo, error) {
	return u.todoRepo.FindByMessageID(userID, providerMessageID)
}

func (u *todoUsecase) UpdateTodo(userID string, todo *domain.EmailTodo) error {
	existing, err := u.ownedTodo(userID, todo.ID)
	if err != nil {
		return err
	}

	existing.Title = todo.Title
	existing.Description = todo.Description
	existing.DueDate = todo.DueDate
	if todo.Status != "" {
		existing.Status = todo.Status
	}
	return u.todoRepo.Update(existing)
}

func (u *todoUsecase) CompleteTodo(userID, todoID string) error {
	existing, err := u.ownedTodo(userID, todoID)
	if err != nil {
		return err
	}
	existing.Status = domain.TodoStatusCompleted
	return u.todoRepo.Update(existing)
}

func (u *todoUsecase) DeleteTodo(userID, todoID string) error {
	if _, err := u.ownedTodo(userID, todoID); err != nil {
		return err
	}
	return u.todoRepo.Delete(todoID)
}

func (u *todoUsecase) ownedTodo(userID, todoID string) (*domain.EmailTodo, error) {
	todo, err := u.todoRepo.FindByID(todoID)
	if err != nil {
		return nil, err
	}
	if todo == nil || todo.UserID != userID {
		return nil, fmt.Errorf("todo %s: %w", todoID, boarddomain.ErrNotFound)
	}
	return todo, nil
}
