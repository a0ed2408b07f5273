package api

import (
	"net/http"

	authDelivery "mailboard-backend/internal/auth/delivery"
	authUsecase "mailboard-backend/internal/auth/usecase"
	boardDelivery "mailboard-backend/internal/board/delivery"
	boardUsecase "mailboard-backend/internal/board/usecase"
	todoDelivery "mailboard-backend/internal/todo/delivery"
	todoUsecase "mailboard-backend/internal/todo/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUC authUsecase.AuthUsecase, boardUC boardUsecase.BoardUsecase, todoUC todoUsecase.TodoUsecase) {
	boardHandler := boardDelivery.NewBoardHandler(boardUC)
	todoHandler := todoDelivery.NewTodoHandler(todoUC)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Board routes (protected)
		boards := api.Group("/boards")
		boards.Use(authDelivery.AuthMiddleware(authUC))
		{
			boards.GET("", boardHandler.GetBoards)
			boards.POST("", boardHandler.CreateBoard)
			boards.GET("/:id", boardHandler.GetBoard)
			boards.PUT("/:id", boardHandler.UpdateBoard)
			boards.DELETE("/:id", boardHandler.DeleteBoard)

			boards.GET("/:id/emails", boardHandler.GetEmails)
			boards.POST("/:id/emails", boardHandler.AddEmail)
			boards.DELETE("/:id/emails", boardHandler.ClearEmails)
			boards.GET("/:id/emails/:messageId/summary", boardHandler.SummarizeThread)

			boards.GET("/:id/columns", boardHandler.GetColumns)
			boards.POST("/:id/columns", boardHandler.CreateColumn)
			boards.PUT("/:id/columns", boardHandler.ReassignColumns)
			boards.PUT("/:id/columns/:columnId", boardHandler.UpdateColumn)
			boards.DELETE("/:id/columns/:columnId", boardHandler.DeleteColumn)
		}

		// Domain analytics (protected)
		stats := api.Group("/stats")
		stats.Use(authDelivery.AuthMiddleware(authUC))
		{
			stats.GET("/domains", boardHandler.GetDomainStats)
		}

		// Todo routes (protected)
		todos := api.Group("/todos")
		todos.Use(authDelivery.AuthMiddleware(authUC))
		{
			todos.GET("", todoHandler.GetTodos)
			todos.POST("", todoHandler.CreateTodo)
			todos.GET("/email/:messageId", todoHandler.GetTodosByEmail)
			todos.PUT("/:id", todoHandler.UpdateTodo)
			todos.PATCH("/:id/complete", todoHandler.CompleteTodo)
			todos.DELETE("/:id", todoHandler.DeleteTodo)
		}
	}
}
