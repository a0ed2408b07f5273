package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// LabelRef identifies one provider label attached to a board's filter.
type LabelRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LabelRefList is stored as a JSON column.
type LabelRefList []LabelRef

// Value implements driver.Valuer
func (l LabelRefList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *LabelRefList) Scan(value interface{}) error {
	if value == nil {
		*l = LabelRefList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}
	if len(bytes) == 0 {
		*l = LabelRefList{}
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Board is a user-defined workspace that filters and organizes emails by
// sender/recipient domain, provider label and keyword.
type Board struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	OwnerID     string       `json:"owner_id" gorm:"index;uniqueIndex:idx_owner_slug;not null"`
	Name        string       `json:"name" gorm:"not null"`
	Description string       `json:"description"`
	URLSlug     string       `json:"url_slug" gorm:"uniqueIndex:idx_owner_slug;not null"`
	DomainList  string       `json:"domain_list"` // comma-separated sender/recipient domains
	Labels      LabelRefList `json:"labels" gorm:"type:text"`
	Keywords    string       `json:"keywords"` // comma-separated, space-joined in provider queries
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Board) TableName() string {
	return "boards"
}

// BoardColumn is one ordered stage in a board's pipeline. Exactly one column
// per board has Position 0; it is the landing column for newly ingested
// emails.
type BoardColumn struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	BoardID   string    `json:"board_id" gorm:"index;uniqueIndex:idx_board_position;not null"`
	Title     string    `json:"title" gorm:"not null"`
	Type      string    `json:"type" gorm:"not null"` // stable slug, join key distinct from Title
	Position  int       `json:"position" gorm:"uniqueIndex:idx_board_position;not null;default:0"`
	Settings  JSONMap   `json:"settings" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// ItemIDs is derived at read time from CachedEmail.ColumnID; never persisted.
	ItemIDs []string `json:"item_ids" gorm:"-"`
}

func (BoardColumn) TableName() string {
	return "board_columns"
}

// Default columns seeded at board creation. The first entry is the default
// landing column.
var DefaultColumns = []struct {
	Title string
	Type  string
}{
	{Title: "Todo", Type: "todo"},
	{Title: "In Progress", Type: "in-progress"},
}
