package repository

import boarddomain "mailboard-backend/internal/board/domain"

// BoardRepository defines the interface for board persistence
type BoardRepository interface {
	// Create a board and seed its default columns atomically
	Create(board *boarddomain.Board) error
	// Get a board owned by a specific user; (nil, nil) when absent
	GetByOwnerAndID(ownerID, boardID string) (*boarddomain.Board, error)
	// Get a board by its per-owner slug
	GetBySlug(ownerID, slug string) (*boarddomain.Board, error)
	// List all boards for an owner
	ListByOwner(ownerID string) ([]*boarddomain.Board, error)
	// Update a board's name/description/filters
	Update(board *boarddomain.Board) error
	// Delete a board and cascade to its columns, cached emails and markers
	Delete(ownerID, boardID string) error
}
