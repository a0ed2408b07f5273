package repository

import (
	"errors"
	"time"

	boarddomain "mailboard-backend/internal/board/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// boardRepository implements BoardRepository interface
type boardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new instance of boardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepository{
		db: db,
	}
}

// Create inserts the board and seeds its default columns in one
// transaction, so a board never exists without a position-0 column.
func (r *boardRepository) Create(board *boarddomain.Board) error {
	if board.ID == "" {
		board.ID = uuid.New().String()
	}
	board.CreatedAt = time.Now()
	board.UpdatedAt = time.Now()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}

		for i, def := range boarddomain.DefaultColumns {
			column := &boarddomain.BoardColumn{
				ID:        uuid.New().String(),
				BoardID:   board.ID,
				Title:     def.Title,
				Type:      def.Type,
				Position:  i,
				Settings:  boarddomain.JSONMap{},
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			if err := tx.Create(column).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *boardRepository) GetByOwnerAndID(ownerID, boardID string) (*boarddomain.Board, error) {
	var board boarddomain.Board
	err := r.db.Where("owner_id = ? AND id = ?", ownerID, boardID).First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) GetBySlug(ownerID, slug string) (*boarddomain.Board, error) {
	var board boarddomain.Board
	err := r.db.Where("owner_id = ? AND url_slug = ?", ownerID, slug).First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) ListByOwner(ownerID string) ([]*boarddomain.Board, error) {
	var boards []*boarddomain.Board
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *boardRepository) Update(board *boarddomain.Board) error {
	board.UpdatedAt = time.Now()
	return r.db.Save(board).Error
}

// Delete removes the board and everything hanging off it: encryption
// metadata, cached emails, columns, the cache marker and cached summaries.
func (r *boardRepository) Delete(ownerID, boardID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var board boarddomain.Board
		err := tx.Where("owner_id = ? AND id = ?", ownerID, boardID).First(&board).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return boarddomain.ErrNotFound
			}
			return err
		}

		if err := deleteCachedEmails(tx, boardID); err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&boarddomain.BoardColumn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&boarddomain.BoardEmailCache{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&boarddomain.ThreadSummary{}).Error; err != nil {
			return err
		}
		return tx.Delete(&board).Error
	})
}
