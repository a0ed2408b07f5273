package api

import (
	authUsecase "mailboard-backend/internal/auth/usecase"
	boardUsecase "mailboard-backend/internal/board/usecase"
	todoUsecase "mailboard-backend/internal/todo/usecase"

	"github.com/gin-gonic/gin"
)

// Handler owns the gin engine and wires the route groups.
type Handler struct {
	engine *gin.Engine
}

func NewHandler(authUC authUsecase.AuthUsecase, boardUC boardUsecase.BoardUsecase, todoUC todoUsecase.TodoUsecase) *Handler {
	engine := gin.Default()

	SetupRoutes(engine, authUC, boardUC, todoUC)

	return &Handler{engine: engine}
}

func (h *Handler) Start(addr string) error {
	return h.engine.Run(addr)
}
