package domain

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Sensitive field names encrypted at rest. Each present field has exactly
// one EncryptionMetadata row per cached email.
const (
	FieldSubject = "subject"
	FieldFrom    = "from"
	FieldTo      = "to"
	FieldSnippet = "snippet"
)

// SensitiveFields lists the CachedEmail attributes that are never stored in
// plaintext.
var SensitiveFields = []string{FieldSubject, FieldFrom, FieldTo, FieldSnippet}

// LabelFlags is the fixed boolean projection of a message's raw provider
// labels plus the residual custom labels. It is recomputed identically at
// ingestion and live fetch.
type LabelFlags struct {
	Starred   bool     `json:"starred"`
	Important bool     `json:"important"`
	Inbox     bool     `json:"inbox"`
	Sent      bool     `json:"sent"`
	Draft     bool     `json:"draft"`
	Spam      bool     `json:"spam"`
	Trash     bool     `json:"trash"`
	Unread    bool     `json:"unread"`
	Custom    []string `json:"custom,omitempty"`
}

// Value implements driver.Valuer
func (f LabelFlags) Value() (driver.Value, error) {
	return json.Marshal(f)
}

// Scan implements sql.Scanner
func (f *LabelFlags) Scan(value interface{}) error {
	if value == nil {
		*f = LabelFlags{}
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
		*f = LabelFlags{}
		return nil
	}
	return json.Unmarshal(bytes, f)
}

// CachedEmail is the persisted cache row for one provider message on one
// board. Sensitive fields live only in encryption_metadata; this row carries
// the non-sensitive remainder. Unique on (board_id, provider_message_id):
// re-ingesting the same message upserts rather than duplicates.
type CachedEmail struct {
	ID                string      `json:"id" gorm:"primaryKey"`
	BoardID           string      `json:"board_id" gorm:"index;uniqueIndex:idx_board_message;not null"`
	ProviderMessageID string      `json:"email_id" gorm:"uniqueIndex:idx_board_message;index;not null"`
	ProviderThreadID  string      `json:"thread_id" gorm:"index"`
	ColumnID          string      `json:"column_id" gorm:"index;not null"`
	Date              time.Time   `json:"date"` // provider-reported send time
	PositionInColumn  int         `json:"position_in_column" gorm:"default:0"`
	Labels            LabelFlags  `json:"labels" gorm:"type:text"`
	RawLabels         StringArray `json:"rawLabels" gorm:"type:text"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func (CachedEmail) TableName() string {
	return "cached_emails"
}

// EncryptionMetadata holds the AEAD output for one sensitive field of one
// cached email. Absent metadata means the field decrypts to empty, never an
// error.
type EncryptionMetadata struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	CachedEmailID string    `json:"cached_email_id" gorm:"index;uniqueIndex:idx_email_field;not null"`
	FieldName     string    `json:"field_name" gorm:"uniqueIndex:idx_email_field;not null"`
	Ciphertext    string    `json:"-" gorm:"type:text;not null"`
	IV            string    `json:"-" gorm:"not null"`
	AuthTag       string    `json:"-" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (EncryptionMetadata) TableName() string {
	return "encryption_metadata"
}

// BoardEmailCache records when a board's cache was last written. It is a
// freshness display signal only; the cache-hit decision is "does the board
// have any cached emails", not marker staleness.
type BoardEmailCache struct {
	BoardID      string    `json:"board_id" gorm:"primaryKey"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}

func (BoardEmailCache) TableName() string {
	return "board_email_caches"
}

// ThreadSummary stores cached AI-generated summaries per board email.
type ThreadSummary struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	BoardID           string    `json:"board_id" gorm:"uniqueIndex:idx_board_email_unique;not null"`
	ProviderMessageID string    `json:"email_id" gorm:"uniqueIndex:idx_board_email_unique;not null"`
	Summary           string    `json:"summary" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
}

func (ThreadSummary) TableName() string {
	return "thread_summaries"
}

// CachedEmailView is the decrypted read shape returned to callers. The
// sensitive fields are present only when their metadata decrypted cleanly.
type CachedEmailView struct {
	ID               string      `json:"id"`
	BoardID          string      `json:"board_id"`
	ColumnID         string      `json:"column_id"`
	Date             time.Time   `json:"date"`
	EmailID          string      `json:"email_id"`
	ThreadID         string      `json:"thread_id"`
	Labels           LabelFlags  `json:"labels"`
	RawLabels        StringArray `json:"rawLabels"`
	PositionInColumn int         `json:"position_in_column"`
	Subject          string      `json:"subject,omitempty"`
	From             string      `json:"from,omitempty"`
	To               string      `json:"to,omitempty"`
	Snippet          string      `json:"snippet,omitempty"`
}
