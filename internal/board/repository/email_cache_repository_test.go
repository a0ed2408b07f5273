package repository

import (
	"testing"
	"time"

	boarddomain "mailboard-backend/internal/board/domain"
	"mailboard-backend/pkg/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encryptField(t *testing.T, engine *crypto.Engine, key []byte, emailID, field, value string) *boarddomain.EncryptionMetadata {
	t.Helper()
	encrypted, err := engine.Encrypt(key, value)
	require.NoError(t, err)
	return &boarddomain.EncryptionMetadata{
		ID:            field + "-meta",
		CachedEmailID: emailID,
		FieldName:     field,
		Ciphertext:    encrypted.Ciphertext,
		IV:            encrypted.IV,
		AuthTag:       encrypted.AuthTag,
	}
}

func TestDecryptCachedEmail(t *testing.T) {
	engine := crypto.NewEngine("test-master-key")
	key := engine.DeriveUserKey("alice@acme.com")

	email := &boarddomain.CachedEmail{
		ID:                "cached-1",
		BoardID:           "board-1",
		ProviderMessageID: "msg-1",
		ProviderThreadID:  "thread-1",
		ColumnID:          "col-1",
		Date:              time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC),
		PositionInColumn:  3,
		Labels:            boarddomain.LabelFlags{Inbox: true, Unread: true},
		RawLabels:         boarddomain.StringArray{"INBOX", "UNREAD"},
	}

	t.Run("all fields decrypt", func(t *testing.T) {
		metadata := []*boarddomain.EncryptionMetadata{
			encryptField(t, engine, key, email.ID, boarddomain.FieldSubject, "Quarterly invoice"),
			encryptField(t, engine, key, email.ID, boarddomain.FieldFrom, "billing@acme.com"),
			encryptField(t, engine, key, email.ID, boarddomain.FieldTo, "alice@acme.com"),
			encryptField(t, engine, key, email.ID, boarddomain.FieldSnippet, "Please find attached"),
		}

		view := decryptCachedEmail(engine, key, email, metadata)

		assert.Equal(t, "cached-1", view.ID)
		assert.Equal(t, "msg-1", view.EmailID)
		assert.Equal(t, "thread-1", view.ThreadID)
		assert.Equal(t, "col-1", view.ColumnID)
		assert.Equal(t, 3, view.PositionInColumn)
		assert.True(t, view.Labels.Inbox)
		assert.Equal(t, "Quarterly invoice", view.Subject)
		assert.Equal(t, "billing@acme.com", view.From)
		assert.Equal(t, "alice@acme.com", view.To)
		assert.Equal(t, "Please find attached", view.Snippet)
	})

	t.Run("tampered field omitted, others survive", func(t *testing.T) {
		subject := encryptField(t, engine, key, email.ID, boarddomain.FieldSubject, "Quarterly invoice")
		from := encryptField(t, engine, key, email.ID, boarddomain.FieldFrom, "billing@acme.com")
		subject.Ciphertext = from.Ciphertext // valid hex, wrong content for this tag

		view := decryptCachedEmail(engine, key, email, []*boarddomain.EncryptionMetadata{subject, from})

		assert.Empty(t, view.Subject)
		assert.Equal(t, "billing@acme.com", view.From)
	})

	t.Run("wrong key yields no plaintext", func(t *testing.T) {
		metadata := []*boarddomain.EncryptionMetadata{
			encryptField(t, engine, key, email.ID, boarddomain.FieldSubject, "Quarterly invoice"),
		}
		otherKey := engine.DeriveUserKey("mallory@evil.com")

		view := decryptCachedEmail(engine, otherKey, email, metadata)

		assert.Empty(t, view.Subject)
	})

	t.Run("absent metadata means empty fields", func(t *testing.T) {
		view := decryptCachedEmail(engine, key, email, nil)

		assert.Empty(t, view.Subject)
		assert.Empty(t, view.From)
		assert.Empty(t, view.To)
		assert.Empty(t, view.Snippet)
		assert.Equal(t, "msg-1", view.EmailID)
	})
}

func TestSensitiveValues(t *testing.T) {
	email := &boarddomain.EmailSummary{
		Subject: "Hello",
		From:    "a@x.com",
		To:      "b@y.com",
		Snippet: "preview",
		Body:    "<p>never persisted</p>",
	}

	values := sensitiveValues(email)

	assert.Equal(t, map[string]string{
		boarddomain.FieldSubject: "Hello",
		boarddomain.FieldFrom:    "a@x.com",
		boarddomain.FieldTo:      "b@y.com",
		boarddomain.FieldSnippet: "preview",
	}, values)
}
