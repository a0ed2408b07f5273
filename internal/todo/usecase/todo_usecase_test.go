package usecase

import (
	"testing"
	"time"

	boarddomain "mailboard-backend/internal/board/domain"
	boardrepo "mailboard-backend/internal/board/repository"
	"mailboard-backend/internal/todo/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTodoRepo struct {
	todos map[string]*domain.EmailTodo
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{todos: map[string]*domain.EmailTodo{}}
}

func (f *fakeTodoRepo) Create(todo *domain.EmailTodo) error {
	f.todos[todo.ID] = todo
	return nil
}
func (f *fakeTodoRepo) FindByID(id string) (*domain.EmailTodo, error) {
	return f.todos[id], nil
}
func (f *fakeTodoRepo) FindByUserID(userID string, status *domain.TodoStatus) ([]*domain.EmailTodo, error) {
	var result []*domain.EmailTodo
	for _, todo := range f.todos {
		if todo.UserID != userID {
			continue
		}
		if status != nil && todo.Status != *status {
			continue
		}
		result = append(result, todo)
	}
	return result, nil
}
func (f *fakeTodoRepo) FindByMessageID(userID, providerMessageID string) ([]*domain.EmailTodo, error) {
	var result []*domain.EmailTodo
	for _, todo := range f.todos {
		if todo.UserID == userID && todo.ProviderMessageID == providerMessageID {
			result = append(result, todo)
		}
	}
	return result, nil
}
func (f *fakeTodoRepo) Update(todo *domain.EmailTodo) error {
	f.todos[todo.ID] = todo
	return nil
}
func (f *fakeTodoRepo) Delete(id string) error {
	delete(f.todos, id)
	return nil
}

// fakeEmailCache answers existence checks from a fixed set of message ids.
type fakeEmailCache struct {
	known map[string]bool
}

func (f *fakeEmailCache) Read(boardID string, keyFn boardrepo.KeyFunc) ([]*boarddomain.CachedEmailView, error) {
	return nil, nil
}
func (f *fakeEmailCache) Write(boardID string, emails []*boarddomain.EmailSummary, defaultColumn *boarddomain.BoardColumn, keyFn boardrepo.KeyFunc) error {
	return nil
}
func (f *fakeEmailCache) Delete(boardID string) error { return nil }
func (f *fakeEmailCache) ExistsByProviderMessageID(providerMessageID string) (bool, error) {
	return f.known[providerMessageID], nil
}
func (f *fakeEmailCache) GetCacheMarker(boardID string) (*boarddomain.BoardEmailCache, error) {
	return nil, nil
}

func newTestUsecase(known ...string) (TodoUsecase, *fakeTodoRepo) {
	cache := &fakeEmailCache{known: map[string]bool{}}
	for _, id := range known {
		cache.known[id] = true
	}
	repo := newFakeTodoRepo()
	return NewTodoUsecase(repo, cache), repo
}

func TestCreateTodo(t *testing.T) {
	u, repo := newTestUsecase("msg-1")

	due := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	todo, err := u.CreateTodo("user-1", "msg-1", "Reply to invoice", "ask about net-30", &due)
	require.NoError(t, err)

	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, "user-1", todo.UserID)
	assert.Equal(t, "msg-1", todo.ProviderMessageID)
	assert.Equal(t, domain.TodoStatusPending, todo.Status)
	assert.Equal(t, &due, todo.DueDate)
	assert.Contains(t, repo.todos, todo.ID)
}

func TestCreateTodoDanglingMessage(t *testing.T) {
	u, repo := newTestUsecase()

	_, err := u.CreateTodo("user-1", "msg-unknown", "title", "", nil)
	assert.ErrorIs(t, err, boarddomain.ErrNotFound)
	assert.Empty(t, repo.todos)
}

func TestCompleteTodo(t *testing.T) {
	u, repo := newTestUsecase("msg-1")
	todo, err := u.CreateTodo("user-1", "msg-1", "title", "", nil)
	require.NoError(t, err)

	require.NoError(t, u.CompleteTodo("user-1", todo.ID))
	assert.Equal(t, domain.TodoStatusCompleted, repo.todos[todo.ID].Status)
}

func TestTodoOwnership(t *testing.T) {
	u, _ := newTestUsecase("msg-1")
	todo, err := u.CreateTodo("user-1", "msg-1", "title", "", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, u.CompleteTodo("user-2", todo.ID), boarddomain.ErrNotFound)
	assert.ErrorIs(t, u.DeleteTodo("user-2", todo.ID), boarddomain.ErrNotFound)
	assert.ErrorIs(t, u.UpdateTodo("user-2", &domain.EmailTodo{ID: todo.ID, Title: "x"}), boarddomain.ErrNotFound)
}

func TestGetTodosStatusFilter(t *testing.T) {
	u, _ := newTestUsecase("msg-1", "msg-2")

	first, err := u.CreateTodo("user-1", "msg-1", "one", "", nil)
	require.NoError(t, err)
	_, err = u.CreateTodo("user-1", "msg-2", "two", "", nil)
	require.NoError(t, err)
	require.NoError(t, u.CompleteTodo("user-1", first.ID))

	pending := domain.TodoStatusPending
	todos, err := u.GetTodos("user-1", &pending)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "two", todos[0].Title)
}
