package gmail

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	boarddomain "mailboard-backend/internal/board/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
)

func TestClassifyLabels(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want boarddomain.LabelFlags
	}{
		{
			name: "empty",
			raw:  nil,
			want: boarddomain.LabelFlags{},
		},
		{
			name: "unread inbox",
			raw:  []string{"INBOX", "UNREAD"},
			want: boarddomain.LabelFlags{Inbox: true, Unread: true},
		},
		{
			name: "all system labels",
			raw:  []string{"STARRED", "IMPORTANT", "INBOX", "SENT", "DRAFT", "SPAM", "TRASH", "UNREAD"},
			want: boarddomain.LabelFlags{
				Starred: true, Important: true, Inbox: true, Sent: true,
				Draft: true, Spam: true, Trash: true, Unread: true,
			},
		},
		{
			name: "custom labels split out",
			raw:  []string{"INBOX", "Label_42", "CATEGORY_UPDATES"},
			want: boarddomain.LabelFlags{Inbox: true, Custom: []string{"Label_42", "CATEGORY_UPDATES"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyLabels(tt.raw))
		})
	}
}

func TestDedupeByThread(t *testing.T) {
	older := &boarddomain.EmailSummary{
		ID:       "msg-1",
		ThreadID: "thread-a",
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := &boarddomain.EmailSummary{
		ID:       "msg-2",
		ThreadID: "thread-a",
		Date:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	other := &boarddomain.EmailSummary{
		ID:       "msg-3",
		ThreadID: "thread-b",
		Date:     time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}

	t.Run("latest message wins per thread", func(t *testing.T) {
		result := DedupeByThread([]*boarddomain.EmailSummary{older, newer, other})
		require.Len(t, result, 2)

		byThread := map[string]*boarddomain.EmailSummary{}
		for _, email := range result {
			byThread[email.ThreadID] = email
		}
		assert.Equal(t, "msg-2", byThread["thread-a"].ID)
		assert.Equal(t, newer.Date, byThread["thread-a"].Date)
		assert.Equal(t, "msg-3", byThread["thread-b"].ID)
	})

	t.Run("order independent", func(t *testing.T) {
		result := DedupeByThread([]*boarddomain.EmailSummary{newer, older})
		require.Len(t, result, 1)
		assert.Equal(t, "msg-2", result[0].ID)
	})

	t.Run("no thread id kept as-is", func(t *testing.T) {
		a := &boarddomain.EmailSummary{ID: "x"}
		b := &boarddomain.EmailSummary{ID: "y"}
		result := DedupeByThread([]*boarddomain.EmailSummary{a, b})
		assert.Len(t, result, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, DedupeByThread(nil))
	})
}

func TestGetHTMLBody(t *testing.T) {
	encode := func(s string) string {
		return base64.URLEncoding.EncodeToString([]byte(s))
	}

	tests := []struct {
		name    string
		payload *gmail.MessagePart
		want    string
	}{
		{
			name: "html at top level",
			payload: &gmail.MessagePart{
				MimeType: "text/html",
				Body:     &gmail.MessagePartBody{Data: encode("<p>hi</p>")},
			},
			want: "<p>hi</p>",
		},
		{
			name: "first html part wins depth-first",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("plain")}},
					{
						MimeType: "multipart/related",
						Parts: []*gmail.MessagePart{
							{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encode("<b>nested</b>")}},
						},
					},
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encode("<i>sibling</i>")}},
				},
			},
			want: "<b>nested</b>",
		},
		{
			name: "no html part falls back to empty",
			payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmail.MessagePart{
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("plain only")}},
				},
			},
			want: "",
		},
		{
			name:    "nil payload",
			payload: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getHTMLBody(tt.payload))
		})
	}
}

func TestConvertMessage(t *testing.T) {
	msg := &gmail.Message{
		Id:           "msg-1",
		ThreadId:     "thread-1",
		Snippet:      "short preview",
		InternalDate: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli(),
		LabelIds:     []string{"INBOX", "UNREAD", "Label_7"},
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Weekly report"},
				{Name: "From", Value: "Alice <alice@acme.com>"},
				{Name: "To", Value: "team@acme.com"},
			},
		},
	}

	email := convertMessage(msg)

	assert.Equal(t, "msg-1", email.ID)
	assert.Equal(t, "thread-1", email.ThreadID)
	assert.Equal(t, "Weekly report", email.Subject)
	assert.Equal(t, "Alice <alice@acme.com>", email.From)
	assert.Equal(t, "team@acme.com", email.To)
	assert.Equal(t, "short preview", email.Snippet)
	assert.True(t, email.Labels.Inbox)
	assert.True(t, email.Labels.Unread)
	assert.Equal(t, []string{"Label_7"}, email.Labels.Custom)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).Unix(), email.Date.Unix())
}

func TestOperationsRequireCredentials(t *testing.T) {
	svc := NewService("client-id", "client-secret")
	ctx := context.Background()

	_, err := svc.Search(ctx, boarddomain.Credentials{}, "query", nil, 10)
	assert.ErrorIs(t, err, boarddomain.ErrNotConnected)

	_, err = svc.GetByID(ctx, boarddomain.Credentials{}, "msg-1", boarddomain.FormatFull)
	assert.ErrorIs(t, err, boarddomain.ErrNotConnected)

	_, err = svc.GetThreadsByLabel(ctx, boarddomain.Credentials{}, "INBOX")
	assert.ErrorIs(t, err, boarddomain.ErrNotConnected)
}
