package repository

import (
	"errors"
	"time"

	"mailboard-backend/internal/todo/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// todoRepository implements TodoRepository interface
type todoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new instance of todoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &todoRepository{
		db: db,
	}
}

func (r *todoRepository) Create(todo *domain.EmailTodo) error {
	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	todo.CreatedAt = time.Now()
	todo.UpdatedAt = time.Now()
	return r.db.Create(todo).Error
}

func (r *todoRepository) FindByID(id string) (*domain.EmailTodo, error) {
	var todo domain.EmailTodo
	err := r.db.Where("id = ?", id).First(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) FindByUserID(userID string, status *domain.TodoStatus) ([]*domain.EmailTodo, error) {
	query := r.db.Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var todos []*domain.EmailTodo
	err := query.Order("created_at DESC").Find(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *todoRepository) FindByMessageID(userID, providerMessageID string) ([]*domain.EmailTodo, error) {
	var todos []*domain.EmailTodo
	err := r.db.Where("user_id = ? AND provider_message_id = ?", userID, providerMessageID).
		Order("created_at DESC").Find(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *todoRepository) Update(todo *domain.EmailTodo) error {
	todo.UpdatedAt = time.Now()
	return r.db.Save(todo).Error
}

func (r *todoRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.EmailTodo{}).Error
}
