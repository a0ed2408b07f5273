package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	authrepo "mailboard-backend/internal/auth/repository"
	boarddomain "mailboard-backend/internal/board/domain"
	"mailboard-backend/internal/board/repository"
	"mailboard-backend/pkg/crypto"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	syncMaxResults  = 20
	statsMaxResults = 100
	statsWindow     = "newer_than:30d"
)

// boardUsecase implements BoardUsecase interface
type boardUsecase struct {
	boardRepo    repository.BoardRepository
	columnRepo   repository.ColumnRepository
	cacheRepo    repository.EmailCacheRepository
	summaryRepo  repository.SummaryRepository
	userRepo     authrepo.UserRepository
	mailProvider boarddomain.MailProvider
	engine       *crypto.Engine
	summarizer   Summarizer
}

// NewBoardUsecase creates a new instance of boardUsecase. All collaborators
// are injected at construction and never mutated afterwards.
func NewBoardUsecase(
	boardRepo repository.BoardRepository,
	columnRepo repository.ColumnRepository,
	cacheRepo repository.EmailCacheRepository,
	summaryRepo repository.SummaryRepository,
	userRepo authrepo.UserRepository,
	mailProvider boarddomain.MailProvider,
	engine *crypto.Engine,
	summarizer Summarizer,
) BoardUsecase {
	return &boardUsecase{
		boardRepo:    boardRepo,
		columnRepo:   columnRepo,
		cacheRepo:    cacheRepo,
		summaryRepo:  summaryRepo,
		userRepo:     userRepo,
		mailProvider: mailProvider,
		engine:       engine,
		summarizer:   summarizer,
	}
}

// userContext resolves the caller's stored provider credentials and the
// key-producing callback handed to the cache repository.
func (u *boardUsecase) userContext(userID string) (boarddomain.Credentials, repository.KeyFunc, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return boarddomain.Credentials{}, nil, err
	}
	if user == nil {
		return boarddomain.Credentials{}, nil, fmt.Errorf("user not set")
	}

	creds := boarddomain.Credentials{
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
		TokenExpiry:  user.TokenExpiry,
		OnTokenRefresh: func(token *oauth2.Token) error {
			return u.userRepo.UpdateTokens(userID, token.AccessToken, token.RefreshToken, token.Expiry)
		},
	}

	identifier := user.Email
	keyFn := func() []byte {
		return u.engine.DeriveUserKey(identifier)
	}

	return creds, keyFn, nil
}

func (u *boardUsecase) ownedBoard(userID, boardID string) (*boarddomain.Board, error) {
	board, err := u.boardRepo.GetByOwnerAndID(userID, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, fmt.Errorf("board %s: %w", boardID, boarddomain.ErrNotFound)
	}
	return board, nil
}

func (u *boardUsecase) CreateBoard(userID string, board *boarddomain.Board) error {
	board.OwnerID = userID
	if board.URLSlug == "" {
		board.URLSlug = slugify(board.Name)
	}
	return u.boardRepo.Create(board)
}

func (u *boardUsecase) GetBoards(userID string) ([]*boarddomain.Board, error) {
	return u.boardRepo.ListByOwner(userID)
}

func (u *boardUsecase) GetBoard(userID, boardID string) (*boarddomain.Board, error) {
	return u.ownedBoard(userID, boardID)
}

func (u *boardUsecase) UpdateBoard(userID string, board *boarddomain.Board) error {
	existing, err := u.ownedBoard(userID, board.ID)
	if err != nil {
		return err
	}

	existing.Name = board.Name
	existing.Description = board.Description
	existing.DomainList = board.DomainList
	existing.Labels = board.Labels
	existing.Keywords = board.Keywords
	return u.boardRepo.Update(existing)
}

func (u *boardUsecase) DeleteBoard(userID, boardID string) error {
	return u.boardRepo.Delete(userID, boardID)
}

// GetEmailsByBoard is the sync entry point. Cache-hit policy: a non-empty
// cache short-circuits without any provider call; freshness of the marker is
// deliberately not consulted (pull-only, manual-refresh model). On refresh
// the response is re-read from the cache rather than echoing the fetched
// batch, so it reflects exactly what encryption and storage produced.
func (u *boardUsecase) GetEmailsByBoard(ctx context.Context, userID, boardID string, forceRefresh bool) ([]*boarddomain.CachedEmailView, error) {
	board, err := u.ownedBoard(userID, boardID)
	if err != nil {
		return nil, err
	}

	creds, keyFn, err := u.userContext(userID)
	if err != nil {
		return nil, err
	}

	if !forceRefresh {
		cached, err := u.cacheRepo.Read(boardID, keyFn)
		if err != nil {
			return nil, err
		}
		if len(cached) > 0 {
			return cached, nil
		}
	}

	if err := u.syncBoard(ctx, creds, board, keyFn); err != nil {
		log.Printf("[Sync] Board %s sync failed: %v", boardID, err)
		return nil, err
	}

	return u.cacheRepo.Read(boardID, keyFn)
}

// syncBoard fetches the board's configured view from the provider and
// persists it. Errors propagate uncaught; rows already upserted stay.
func (u *boardUsecase) syncBoard(ctx context.Context, creds boarddomain.Credentials, board *boarddomain.Board, keyFn repository.KeyFunc) error {
	query := BuildSearchQuery(board.DomainList, board.Keywords)
	labelIDs := make([]string, 0, len(board.Labels))
	for _, label := range board.Labels {
		labelIDs = append(labelIDs, label.ID)
	}

	emails, err := u.mailProvider.Search(ctx, creds, query, labelIDs, syncMaxResults)
	if err != nil {
		return fmt.Errorf("provider search failed for board %s: %w", board.ID, err)
	}

	defaultColumn, err := u.columnRepo.GetDefaultColumn(board.ID)
	if err != nil {
		return err
	}

	return u.cacheRepo.Write(board.ID, emails, defaultColumn, keyFn)
}

// AddEmailToBoard fetches one message by id, bypassing search, and writes it
// through the cache with the board's default column.
func (u *boardUsecase) AddEmailToBoard(ctx context.Context, userID, boardID, messageID string) error {
	board, err := u.ownedBoard(userID, boardID)
	if err != nil {
		return err
	}

	creds, keyFn, err := u.userContext(userID)
	if err != nil {
		return err
	}

	emails, err := u.mailProvider.GetByID(ctx, creds, messageID, boarddomain.FormatFull)
	if err != nil {
		return fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}

	defaultColumn, err := u.columnRepo.GetDefaultColumn(board.ID)
	if err != nil {
		return err
	}

	return u.cacheRepo.Write(board.ID, emails, defaultColumn, keyFn)
}

func (u *boardUsecase) GetLastSyncedAt(userID, boardID string) (*time.Time, error) {
	if _, err := u.ownedBoard(userID, boardID); err != nil {
		return nil, err
	}

	marker, err := u.cacheRepo.GetCacheMarker(boardID)
	if err != nil {
		return nil, err
	}
	if marker == nil {
		return nil, nil
	}
	return &marker.LastSyncedAt, nil
}

// ClearBoardCache invalidates the board's cache. The next read is a cache
// miss and syncs from the provider. Column assignments of the dropped rows
// are lost; re-synced emails land in the default column again.
func (u *boardUsecase) ClearBoardCache(userID, boardID string) error {
	if _, err := u.ownedBoard(userID, boardID); err != nil {
		return err
	}
	return u.cacheRepo.Delete(boardID)
}

func (u *boardUsecase) GetColumns(userID, boardID string) ([]*boarddomain.BoardColumn, error) {
	if _, err := u.ownedBoard(userID, boardID); err != nil {
		return nil, err
	}
	return u.columnRepo.GetColumnsByBoardID(boardID)
}

func (u *boardUsecase) CreateColumn(userID, boardID string, column *boarddomain.BoardColumn) error {
	if _, err := u.ownedBoard(userID, boardID); err != nil {
		return err
	}
	column.BoardID = boardID
	if column.Type == "" {
		column.Type = slugify(column.Title)
	}
	return u.columnRepo.CreateColumn(column)
}

func (u *boardUsecase) UpdateColumn(userID, boardID string, column *boarddomain.BoardColumn) error {
	if _, err := u.ownedBoard(userID, boardID); err != nil {
		return err
	}
	column.BoardID = boardID
	return u.columnRepo.UpdateColumn(column)
}

func (u *boardUsecase) DeleteColumn(userID, boardID, columnID, reassignToID string) error {
	if _, err := u.ownedBoard(userID, boardID); err != nil {
		return err
	}
	return u.columnRepo.DeleteColumn(boardID, columnID, reassignToID)
}

func (u *boardUsecase) ReassignColumnsAndEmails(userID, boardID string, columns []*boarddomain.BoardColumn) error {
	if _, err := u.ownedBoard(userID, boardID); err != nil {
		return err
	}
	return u.columnRepo.ReassignColumnsAndEmails(boardID, columns)
}

// GetDomainStats fetches recent messages and tallies sender/recipient
// domains. Search collapses each thread to its latest message, so the tally
// counts conversations, not individual messages.
func (u *boardUsecase) GetDomainStats(ctx context.Context, userID string) (map[string]int, error) {
	creds, _, err := u.userContext(userID)
	if err != nil {
		return nil, err
	}

	emails, err := u.mailProvider.Search(ctx, creds, statsWindow, nil, statsMaxResults)
	if err != nil {
		return nil, fmt.Errorf("provider search failed for domain stats: %w", err)
	}

	stats := make(map[string]int)
	for _, email := range emails {
		for _, d := range ExtractDomains(email.From) {
			stats[d]++
		}
		for _, d := range ExtractDomains(email.To) {
			stats[d]++
		}
	}

	return stats, nil
}

// SummarizeThread returns the cached summary for a message, generating and
// caching one on first request.
func (u *boardUsecase) SummarizeThread(ctx context.Context, userID, boardID, messageID string) (string, error) {
	if _, err := u.ownedBoard(userID, boardID); err != nil {
		return "", err
	}
	if u.summarizer == nil {
		return "", fmt.Errorf("summarizer not configured")
	}

	cached, err := u.summaryRepo.GetSummary(boardID, messageID)
	if err != nil {
		return "", err
	}
	if cached != nil && cached.Summary != "" {
		return cached.Summary, nil
	}

	creds, _, err := u.userContext(userID)
	if err != nil {
		return "", err
	}

	emails, err := u.mailProvider.GetByID(ctx, creds, messageID, boarddomain.FormatFull)
	if err != nil {
		return "", fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}
	if len(emails) == 0 {
		return "", fmt.Errorf("message %s: %w", messageID, boarddomain.ErrNotFound)
	}

	email := emails[0]
	text := email.Subject + "\n\n" + email.Body
	if email.Body == "" {
		text = email.Subject + "\n\n" + email.Snippet
	}

	summary, err := u.summarizer.SummarizeEmail(ctx, text)
	if err != nil {
		return "", err
	}

	if err := u.summaryRepo.SaveSummary(&boarddomain.ThreadSummary{
		ID:                uuid.New().String(),
		BoardID:           boardID,
		ProviderMessageID: messageID,
		Summary:           summary,
	}); err != nil {
		log.Printf("[Summary] Failed to cache summary for %s: %v", messageID, err)
	}

	return summary, nil
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	return s
}
