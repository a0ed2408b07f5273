package repository

import boarddomain "mailboard-backend/internal/board/domain"

// ColumnRepository defines the interface for board column operations
type ColumnRepository interface {
	// Get all columns for a board ordered by position, with ItemIDs
	// reconstructed from the cached emails
	GetColumnsByBoardID(boardID string) ([]*boarddomain.BoardColumn, error)
	// Create a new column at the end of the board
	CreateColumn(column *boarddomain.BoardColumn) error
	// Get the column at position 0; ErrNotFound if the board has none
	GetDefaultColumn(boardID string) (*boarddomain.BoardColumn, error)
	// Update a column's title and settings
	UpdateColumn(column *boarddomain.BoardColumn) error
	// Delete a column, reassigning its member emails to a surviving column
	DeleteColumn(boardID, columnID, reassignToID string) error
	// Update every column's position/title/settings and every email's
	// column assignment as a single all-or-nothing unit
	ReassignColumnsAndEmails(boardID string, columns []*boarddomain.BoardColumn) error
}
