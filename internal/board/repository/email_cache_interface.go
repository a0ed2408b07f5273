package repository

import boarddomain "mailboard-backend/internal/board/domain"

// KeyFunc produces the caller's derived encryption key. Injected so the
// repository never derives keys itself.
type KeyFunc func() []byte

// EmailCacheRepository defines the interface for the encrypted email cache
type EmailCacheRepository interface {
	// Read all cached emails for a board, date descending, sensitive fields
	// decrypted per field. Empty slice is the cache-miss signal.
	Read(boardID string, keyFn KeyFunc) ([]*boarddomain.CachedEmailView, error)
	// Write upserts provider results keyed on (board, provider message id).
	// Idempotent at the row level; the default column applies on insert only.
	Write(boardID string, emails []*boarddomain.EmailSummary, defaultColumn *boarddomain.BoardColumn, keyFn KeyFunc) error
	// Delete all cached emails for a board
	Delete(boardID string) error
	// ExistsByProviderMessageID reports whether any board caches the message
	ExistsByProviderMessageID(providerMessageID string) (bool, error)
	// GetCacheMarker returns the board's last-synced marker; (nil, nil) when
	// the board has never synced
	GetCacheMarker(boardID string) (*boarddomain.BoardEmailCache, error)
}
