package delivery

import (
	"errors"
	"net/http"
	"time"

	boarddomain "mailboard-backend/internal/board/domain"
	"mailboard-backend/internal/todo/domain"
	"mailboard-backend/internal/todo/usecase"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	todoUsecase usecase.TodoUsecase
}

func NewTodoHandler(todoUsecase usecase.TodoUsecase) *TodoHandler {
	return &TodoHandler{
		todoUsecase: todoUsecase,
	}
}

type createTodoRequest struct {
	MessageID   string `json:"message_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

type updateTodoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
}

func (h *TodoHandler) CreateTodo(c *gin.Context) {
	userID := c.GetString("userID")

	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		if t, err := time.Parse(time.RFC3339, req.DueDate); err == nil {
			dueDate = &t
		}
	}

	todo, err := h.todoUsecase.CreateTodo(userID, req.MessageID, req.Title, req.Description, dueDate)
	if err != nil {
		if errors.Is(err, boarddomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, todo)
}

func (h *TodoHandler) GetTodos(c *gin.Context) {
	userID := c.GetString("userID")

	var status *domain.TodoStatus
	if s := c.Query("status"); s != "" {
		st := domain.TodoStatus(s)
		status = &st
	}

	todos, err := h.todoUsecase.GetTodos(userID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

func (h *TodoHandler) GetTodosByEmail(c *gin.Context) {
	userID := c.GetString("userID")
	messageID := c.Param("messageId")

	todos, err := h.todoUsecase.GetTodosByEmail(userID, messageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	userID := c.GetString("userID")
	todoID := c.Param("id")

	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	todo := &domain.EmailTodo{
		ID:          todoID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TodoStatus(req.Status),
	}
	if req.DueDate != "" {
		if t, err := time.Parse(time.RFC3339, req.DueDate); err == nil {
			todo.DueDate = &t
		}
	}

	if err := h.todoUsecase.UpdateTodo(userID, todo); err != nil {
		if errors.Is(err, boarddomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "todo updated"})
}

func (h *TodoHandler) CompleteTodo(c *gin.Context) {
	userID := c.GetString("userID")
	todoID := c.Param("id")

	if err := h.todoUsecase.CompleteTodo(userID, todoID); err != nil {
		if errors.Is(err, boarddomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "todo completed"})
}

func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	userID := c.GetString("userID")
	todoID := c.Param("id")

	if err := h.todoUsecase.DeleteTodo(userID, todoID); err != nil {
		if errors.Is(err, boarddomain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "todo deleted"})
}
