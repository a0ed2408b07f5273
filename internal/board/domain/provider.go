package domain

import (
	"context"
	"errors"
	"time"

	"golang.org/x/oauth2"
)

// ErrNotFound is returned when a board, column or email does not exist or
// does not belong to the caller.
var ErrNotFound = errors.New("not found")

// ErrNotConnected is returned when a provider operation is invoked without
// credentials. Programmer error; fail fast.
var ErrNotConnected = errors.New("mail provider not connected")

// TokenUpdateFunc persists a refreshed OAuth token.
type TokenUpdateFunc func(token *oauth2.Token) error

// Credentials is the per-user provider token pair. The core treats it as
// opaque and passes it through to the adapter on every call.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time

	// OnTokenRefresh, when set, is invoked after the provider refreshes the
	// access token so the new pair can be persisted.
	OnTokenRefresh TokenUpdateFunc
}

// IsZero reports whether no credentials were supplied.
func (c Credentials) IsZero() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// EmailSummary is one provider message as returned by the adapter: full
// headers, label projection and decoded body. Search returns one summary per
// distinct thread (the latest message wins).
type EmailSummary struct {
	ID        string      `json:"id"`
	ThreadID  string      `json:"thread_id"`
	Subject   string      `json:"subject"`
	From      string      `json:"from"`
	To        string      `json:"to"`
	Snippet   string      `json:"snippet"`
	Body      string      `json:"body,omitempty"`
	Date      time.Time   `json:"date"`
	Labels    LabelFlags  `json:"labels"`
	RawLabels StringArray `json:"rawLabels"`
}

// MessageFormat selects how much of a message GetByID fetches.
type MessageFormat string

const (
	FormatFull     MessageFormat = "full"
	FormatMetadata MessageFormat = "metadata"
)

// MailProvider abstracts the upstream mail API behind search and fetch so
// other backends could be substituted.
type MailProvider interface {
	// Search lists messages matching the query, fetches full details for
	// each match concurrently and deduplicates by thread. Empty result on no
	// matches.
	Search(ctx context.Context, creds Credentials, query string, labelIDs []string, maxResults int64) ([]*EmailSummary, error)

	// GetByID fetches one message. Returns a single-element slice for
	// symmetry with Search.
	GetByID(ctx context.Context, creds Credentials, id string, format MessageFormat) ([]*EmailSummary, error)

	// GetThreadsByLabel is Search restricted to one label.
	GetThreadsByLabel(ctx context.Context, creds Credentials, labelID string) ([]*EmailSummary, error)
}
