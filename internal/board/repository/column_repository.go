package repository

import (
	"errors"
	"fmt"
	"time"

	boarddomain "mailboard-backend/internal/board/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// columnRepository implements ColumnRepository interface
type columnRepository struct {
	db *gorm.DB
}

// NewColumnRepository creates a new instance of columnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &columnRepository{
		db: db,
	}
}

// GetColumnsByBoardID returns the board's columns ordered by position.
// ItemIDs is rebuilt from cached_emails.column_id at read time; the
// column/email assignment on disk is the source of truth.
func (r *columnRepository) GetColumnsByBoardID(boardID string) ([]*boarddomain.BoardColumn, error) {
	var columns []*boarddomain.BoardColumn
	err := r.db.Where("board_id = ?", boardID).Order("position ASC").Find(&columns).Error
	if err != nil {
		return nil, err
	}

	var emails []*boarddomain.CachedEmail
	err = r.db.Select("id", "column_id").
		Where("board_id = ?", boardID).
		Order("position_in_column ASC, date DESC").
		Find(&emails).Error
	if err != nil {
		return nil, err
	}

	byColumn := make(map[string][]string)
	for _, email := range emails {
		byColumn[email.ColumnID] = append(byColumn[email.ColumnID], email.ID)
	}

	for _, col := range columns {
		if col.Settings == nil {
			col.Settings = boarddomain.JSONMap{}
		}
		col.ItemIDs = byColumn[col.ID]
		if col.ItemIDs == nil {
			col.ItemIDs = []string{}
		}
	}

	return columns, nil
}

func (r *columnRepository) CreateColumn(column *boarddomain.BoardColumn) error {
	if column.ID == "" {
		column.ID = uuid.New().String()
	}
	if column.Settings == nil {
		column.Settings = boarddomain.JSONMap{}
	}
	column.CreatedAt = time.Now()
	column.UpdatedAt = time.Now()

	// Append at the end of the board
	var maxPos int
	row := r.db.Model(&boarddomain.BoardColumn{}).
		Where("board_id = ?", column.BoardID).
		Select("COALESCE(MAX(position), -1)").
		Row()
	if err := row.Scan(&maxPos); err != nil {
		return err
	}
	column.Position = maxPos + 1

	return r.db.Create(column).Error
}

// GetDefaultColumn returns the column at position 0, the landing column for
// newly ingested emails. A board without one violates the creation
// invariant, so this fails rather than guessing.
func (r *columnRepository) GetDefaultColumn(boardID string) (*boarddomain.BoardColumn, error) {
	var column boarddomain.BoardColumn
	err := r.db.Where("board_id = ? AND position = 0", boardID).First(&column).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("board %s has no default column: %w", boardID, boarddomain.ErrNotFound)
		}
		return nil, err
	}
	return &column, nil
}

func (r *columnRepository) UpdateColumn(column *boarddomain.BoardColumn) error {
	column.UpdatedAt = time.Now()
	if column.Settings == nil {
		column.Settings = boarddomain.JSONMap{}
	}
	return r.db.Model(&boarddomain.BoardColumn{}).
		Where("board_id = ? AND id = ?", column.BoardID, column.ID).
		Updates(map[string]interface{}{
			"title":      column.Title,
			"settings":   column.Settings,
			"updated_at": column.UpdatedAt,
		}).Error
}

// DeleteColumn moves the column's member emails to a surviving column and
// deletes it in one transaction. Emails are never orphaned. Remaining
// positions are re-densified.
func (r *columnRepository) DeleteColumn(boardID, columnID, reassignToID string) error {
	if columnID == reassignToID {
		return errors.New("cannot reassign emails to the column being deleted")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var column boarddomain.BoardColumn
		err := tx.Where("board_id = ? AND id = ?", boardID, columnID).First(&column).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return boarddomain.ErrNotFound
			}
			return err
		}

		var survivor boarddomain.BoardColumn
		err = tx.Where("board_id = ? AND id = ?", boardID, reassignToID).First(&survivor).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("surviving column %s: %w", reassignToID, boarddomain.ErrNotFound)
			}
			return err
		}

		if err := tx.Model(&boarddomain.CachedEmail{}).
			Where("board_id = ? AND column_id = ?", boardID, columnID).
			Update("column_id", survivor.ID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&column).Error; err != nil {
			return err
		}

		return densifyPositions(tx, boardID)
	})
}

// ReassignColumnsAndEmails applies a full board layout: every column's
// position/title/settings and every email's column id, derived from which
// column's ItemIDs it appears in. All-or-nothing; partial application would
// desync columns from their emails.
func (r *columnRepository) ReassignColumnsAndEmails(boardID string, columns []*boarddomain.BoardColumn) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// Two passes over positions: the unique (board_id, position) index
		// would reject transient collisions mid-reorder.
		for i, col := range columns {
			err := tx.Model(&boarddomain.BoardColumn{}).
				Where("board_id = ? AND id = ?", boardID, col.ID).
				Update("position", -(i + 1)).Error
			if err != nil {
				return err
			}
		}

		for i, col := range columns {
			settings := col.Settings
			if settings == nil {
				settings = boarddomain.JSONMap{}
			}
			result := tx.Model(&boarddomain.BoardColumn{}).
				Where("board_id = ? AND id = ?", boardID, col.ID).
				Updates(map[string]interface{}{
					"title":      col.Title,
					"position":   i,
					"settings":   settings,
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("column %s: %w", col.ID, boarddomain.ErrNotFound)
			}

			for pos, emailID := range col.ItemIDs {
				err := tx.Model(&boarddomain.CachedEmail{}).
					Where("board_id = ? AND id = ?", boardID, emailID).
					Updates(map[string]interface{}{
						"column_id":          col.ID,
						"position_in_column": pos,
						"updated_at":         now,
					}).Error
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// densifyPositions rewrites column positions as 0..n-1 preserving order.
func densifyPositions(tx *gorm.DB, boardID string) error {
	var columns []*boarddomain.BoardColumn
	if err := tx.Where("board_id = ?", boardID).Order("position ASC").Find(&columns).Error; err != nil {
		return err
	}

	for i, col := range columns {
		if col.Position == i {
			continue
		}
		err := tx.Model(&boarddomain.BoardColumn{}).
			Where("id = ?", col.ID).
			Update("position", i).Error
		if err != nil {
			return err
		}
	}
	return nil
}
