package usecase

import (
	"context"
	"time"

	boarddomain "mailboard-backend/internal/board/domain"
)

// Summarizer is a single stateless request/response to an external model.
type Summarizer interface {
	SummarizeEmail(ctx context.Context, emailText string) (string, error)
}

// BoardUsecase is the orchestration layer tying the provider adapter, the
// crypto engine and the repositories together. Every operation takes the
// authenticated user id explicitly; the service holds no per-request state.
type BoardUsecase interface {
	CreateBoard(userID string, board *boarddomain.Board) error
	GetBoards(userID string) ([]*boarddomain.Board, error)
	GetBoard(userID, boardID string) (*boarddomain.Board, error)
	UpdateBoard(userID string, board *boarddomain.Board) error
	DeleteBoard(userID, boardID string) error

	// GetEmailsByBoard returns the board's cached view, refreshing from the
	// provider when the cache is empty or a refresh is forced.
	GetEmailsByBoard(ctx context.Context, userID, boardID string, forceRefresh bool) ([]*boarddomain.CachedEmailView, error)
	// AddEmailToBoard attaches one provider message to a board's default column.
	AddEmailToBoard(ctx context.Context, userID, boardID, messageID string) error
	// GetLastSyncedAt returns the board's freshness marker, nil before first sync.
	GetLastSyncedAt(userID, boardID string) (*time.Time, error)
	// ClearBoardCache drops the board's cached emails; the next read syncs fresh.
	ClearBoardCache(userID, boardID string) error

	GetColumns(userID, boardID string) ([]*boarddomain.BoardColumn, error)
	CreateColumn(userID, boardID string, column *boarddomain.BoardColumn) error
	UpdateColumn(userID, boardID string, column *boarddomain.BoardColumn) error
	DeleteColumn(userID, boardID, columnID, reassignToID string) error
	ReassignColumnsAndEmails(userID, boardID string, columns []*boarddomain.BoardColumn) error

	// GetDomainStats tallies sender/recipient domains over the trailing
	// 30-day window. Read-only; never touches the cache.
	GetDomainStats(ctx context.Context, userID string) (map[string]int, error)
	// SummarizeThread returns an AI summary for one cached email, cached per board.
	SummarizeThread(ctx context.Context, userID, boardID, messageID string) (string, error)
}
