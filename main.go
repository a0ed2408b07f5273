package main

import (
	"log"

	api "mailboard-backend/cmd/api"
	authdomain "mailboard-backend/internal/auth/domain"
	authRepo "mailboard-backend/internal/auth/repository"
	authUsecase "mailboard-backend/internal/auth/usecase"
	boarddomain "mailboard-backend/internal/board/domain"
	boardRepo "mailboard-backend/internal/board/repository"
	boardUsecase "mailboard-backend/internal/board/usecase"
	tododomain "mailboard-backend/internal/todo/domain"
	todoRepo "mailboard-backend/internal/todo/repository"
	todoUsecase "mailboard-backend/internal/todo/usecase"
	"mailboard-backend/pkg/config"
	"mailboard-backend/pkg/crypto"
	"mailboard-backend/pkg/database"
	"mailboard-backend/pkg/gemini"
	"mailboard-backend/pkg/gmail"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.EncryptionMasterKey == "" {
		log.Fatal("ENCRYPTION_MASTER_KEY must be set")
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&boarddomain.Board{},
		&boarddomain.BoardColumn{},
		&boarddomain.CachedEmail{},
		&boarddomain.EncryptionMetadata{},
		&boarddomain.BoardEmailCache{},
		&boarddomain.ThreadSummary{},
		&tododomain.EmailTodo{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Crypto engine: per-user key derivation + field encryption
	engine := crypto.NewEngine(cfg.EncryptionMasterKey)

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	boardRepository := boardRepo.NewBoardRepository(db)
	columnRepository := boardRepo.NewColumnRepository(db)
	cacheRepository := boardRepo.NewEmailCacheRepository(db, engine)
	summaryRepository := boardRepo.NewSummaryRepository(db)
	todoRepository := todoRepo.NewTodoRepository(db)

	// Mail provider adapter (Gmail)
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)

	// AI summarizer
	geminiService := gemini.NewGeminiService(cfg.GeminiAPIKey)

	// Initialize use cases (dependency injection)
	authUC := authUsecase.NewAuthUsecase(userRepository, cfg)
	boardUC := boardUsecase.NewBoardUsecase(
		boardRepository,
		columnRepository,
		cacheRepository,
		summaryRepository,
		userRepository,
		gmailService,
		engine,
		geminiService,
	)
	todoUC := todoUsecase.NewTodoUsecase(todoRepository, cacheRepository)

	// Initialize HTTP handler
	handler := api.NewHandler(authUC, boardUC, todoUC)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
