package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	boarddomain "mailboard-backend/internal/board/domain"
	"mailboard-backend/pkg/crypto"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// emailCacheRepository implements EmailCacheRepository interface
type emailCacheRepository struct {
	db     *gorm.DB
	engine *crypto.Engine
}

// NewEmailCacheRepository creates a new instance of emailCacheRepository
func NewEmailCacheRepository(db *gorm.DB, engine *crypto.Engine) EmailCacheRepository {
	return &emailCacheRepository{
		db:     db,
		engine: engine,
	}
}

// Read loads all cached emails for a board ordered by date descending and
// decrypts each sensitive field independently. A bad field is omitted, never
// substituted with garbage, and never blocks the other fields or rows.
func (r *emailCacheRepository) Read(boardID string, keyFn KeyFunc) ([]*boarddomain.CachedEmailView, error) {
	var emails []*boarddomain.CachedEmail
	err := r.db.Where("board_id = ?", boardID).Order("date DESC").Find(&emails).Error
	if err != nil {
		return nil, err
	}

	views := make([]*boarddomain.CachedEmailView, 0, len(emails))
	if len(emails) == 0 {
		return views, nil
	}

	emailIDs := make([]string, len(emails))
	for i, email := range emails {
		emailIDs[i] = email.ID
	}

	var metadata []*boarddomain.EncryptionMetadata
	err = r.db.Where("cached_email_id IN ?", emailIDs).Find(&metadata).Error
	if err != nil {
		return nil, err
	}

	byEmail := make(map[string][]*boarddomain.EncryptionMetadata)
	for _, meta := range metadata {
		byEmail[meta.CachedEmailID] = append(byEmail[meta.CachedEmailID], meta)
	}

	key := keyFn()
	for _, email := range emails {
		views = append(views, decryptCachedEmail(r.engine, key, email, byEmail[email.ID]))
	}

	return views, nil
}

// decryptCachedEmail builds the read view for one row. Absent metadata means
// the field is empty; a failed decrypt drops the field and is logged.
func decryptCachedEmail(engine *crypto.Engine, key []byte, email *boarddomain.CachedEmail, metadata []*boarddomain.EncryptionMetadata) *boarddomain.CachedEmailView {
	view := &boarddomain.CachedEmailView{
		ID:               email.ID,
		BoardID:          email.BoardID,
		ColumnID:         email.ColumnID,
		Date:             email.Date,
		EmailID:          email.ProviderMessageID,
		ThreadID:         email.ProviderThreadID,
		Labels:           email.Labels,
		RawLabels:        email.RawLabels,
		PositionInColumn: email.PositionInColumn,
	}

	for _, meta := range metadata {
		plaintext, err := engine.Decrypt(key, &crypto.EncryptedField{
			Ciphertext: meta.Ciphertext,
			IV:         meta.IV,
			AuthTag:    meta.AuthTag,
		})
		if err != nil {
			log.Printf("[Cache] Failed to decrypt field %s of email %s: %v", meta.FieldName, email.ID, err)
			continue
		}

		switch meta.FieldName {
		case boarddomain.FieldSubject:
			view.Subject = plaintext
		case boarddomain.FieldFrom:
			view.From = plaintext
		case boarddomain.FieldTo:
			view.To = plaintext
		case boarddomain.FieldSnippet:
			view.Snippet = plaintext
		}
	}

	return view
}

// sensitiveValues maps field names to the summary's plaintext values.
func sensitiveValues(email *boarddomain.EmailSummary) map[string]string {
	return map[string]string{
		boarddomain.FieldSubject: email.Subject,
		boarddomain.FieldFrom:    email.From,
		boarddomain.FieldTo:      email.To,
		boarddomain.FieldSnippet: email.Snippet,
	}
}

// Write upserts each incoming message. Per-email upserts run in their own
// transaction: the batch as a whole is not atomic, so a failed sync leaves
// the rows already written (idempotent retry is the recovery path). A
// successful write touches the board's freshness marker.
func (r *emailCacheRepository) Write(boardID string, emails []*boarddomain.EmailSummary, defaultColumn *boarddomain.BoardColumn, keyFn KeyFunc) error {
	key := keyFn()

	for _, email := range emails {
		if err := r.writeOne(boardID, email, defaultColumn, key); err != nil {
			return fmt.Errorf("failed to cache email %s for board %s: %w", email.ID, boardID, err)
		}
	}

	now := time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "board_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"last_synced_at": now}),
	}).Create(&boarddomain.BoardEmailCache{
		BoardID:      boardID,
		LastSyncedAt: now,
	}).Error
}

func (r *emailCacheRepository) writeOne(boardID string, email *boarddomain.EmailSummary, defaultColumn *boarddomain.BoardColumn, key []byte) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var row boarddomain.CachedEmail
		err := tx.Where("board_id = ? AND provider_message_id = ?", boardID, email.ID).First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = boarddomain.CachedEmail{
				ID:                uuid.New().String(),
				BoardID:           boardID,
				ProviderMessageID: email.ID,
				ProviderThreadID:  email.ThreadID,
				ColumnID:          defaultColumn.ID,
				Date:              email.Date,
				Labels:            email.Labels,
				RawLabels:         email.RawLabels,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			// A concurrent sync may insert the same row first; the unique
			// constraint turns that into the update path below.
			createErr := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "board_id"}, {Name: "provider_message_id"}},
				DoNothing: true,
			}).Create(&row)
			if createErr.Error != nil {
				return createErr.Error
			}
			if createErr.RowsAffected == 0 {
				if err := tx.Where("board_id = ? AND provider_message_id = ?", boardID, email.ID).First(&row).Error; err != nil {
					return err
				}
				if err := refreshCachedRow(tx, &row, email, now); err != nil {
					return err
				}
			}
		case err != nil:
			return err
		default:
			// Existing row: refresh provider-derived fields. ColumnID is
			// user state after insert and is never reset on re-sync.
			if err := refreshCachedRow(tx, &row, email, now); err != nil {
				return err
			}
		}

		for _, field := range boarddomain.SensitiveFields {
			value := sensitiveValues(email)[field]
			if value == "" {
				// A field that is empty upstream must not keep surfacing its
				// previous value from an earlier sync.
				if err := tx.Where("cached_email_id = ? AND field_name = ?", row.ID, field).
					Delete(&boarddomain.EncryptionMetadata{}).Error; err != nil {
					return err
				}
				continue
			}

			encrypted, err := r.engine.Encrypt(key, value)
			if err != nil {
				return fmt.Errorf("failed to encrypt field %s: %w", field, err)
			}

			meta := &boarddomain.EncryptionMetadata{
				ID:            uuid.New().String(),
				CachedEmailID: row.ID,
				FieldName:     field,
				Ciphertext:    encrypted.Ciphertext,
				IV:            encrypted.IV,
				AuthTag:       encrypted.AuthTag,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			err = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "cached_email_id"}, {Name: "field_name"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"ciphertext": encrypted.Ciphertext,
					"iv":         encrypted.IV,
					"auth_tag":   encrypted.AuthTag,
					"updated_at": now,
				}),
			}).Create(meta).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func refreshCachedRow(tx *gorm.DB, row *boarddomain.CachedEmail, email *boarddomain.EmailSummary, now time.Time) error {
	return tx.Model(&boarddomain.CachedEmail{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"provider_thread_id": email.ThreadID,
			"date":               email.Date,
			"labels":             email.Labels,
			"raw_labels":         email.RawLabels,
			"updated_at":         now,
		}).Error
}

func (r *emailCacheRepository) Delete(boardID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return deleteCachedEmails(tx, boardID)
	})
}

// deleteCachedEmails removes a board's cache rows and their encryption
// metadata. Shared by cache invalidation and board deletion.
func deleteCachedEmails(tx *gorm.DB, boardID string) error {
	err := tx.Where("cached_email_id IN (?)",
		tx.Model(&boarddomain.CachedEmail{}).Select("id").Where("board_id = ?", boardID),
	).Delete(&boarddomain.EncryptionMetadata{}).Error
	if err != nil {
		return err
	}
	return tx.Where("board_id = ?", boardID).Delete(&boarddomain.CachedEmail{}).Error
}

func (r *emailCacheRepository) ExistsByProviderMessageID(providerMessageID string) (bool, error) {
	var count int64
	err := r.db.Model(&boarddomain.CachedEmail{}).
		Where("provider_message_id = ?", providerMessageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *emailCacheRepository) GetCacheMarker(boardID string) (*boarddomain.BoardEmailCache, error) {
	var marker boarddomain.BoardEmailCache
	err := r.db.Where("board_id = ?", boardID).First(&marker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &marker, nil
}
