package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"time"

	boarddomain "mailboard-backend/internal/board/domain"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const maxConcurrentFetches = 10

// Service implements boarddomain.MailProvider against the Gmail API. It is
// immutable; credentials are passed explicitly on every call.
type Service struct {
	clientID     string
	clientSecret string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback boarddomain.TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			fmt.Printf("Failed to update token: %v\n", err)
		}
	}
	return t, nil
}

func NewService(clientID, clientSecret string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// getGmailService builds an authenticated Gmail client for one call.
func (s *Service) getGmailService(ctx context.Context, creds boarddomain.Credentials) (*gmail.Service, error) {
	if creds.IsZero() {
		return nil, boarddomain.ErrNotConnected
	}

	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       creds.TokenExpiry,
	}

	config := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	tokenSource := config.TokenSource(ctx, token)

	// Wrap token source to persist refreshed tokens
	wrappedSource := &notifyTokenSource{
		src:      tokenSource,
		current:  token,
		callback: creds.OnTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %v", err)
	}

	return srv, nil
}

// Search lists messages matching the query and label ids, fetches full
// details for every match concurrently, then keeps one message per thread
// (the latest by date). Results are sorted by date descending.
func (s *Service) Search(ctx context.Context, creds boarddomain.Credentials, query string, labelIDs []string, maxResults int64) ([]*boarddomain.EmailSummary, error) {
	srv, err := s.getGmailService(ctx, creds)
	if err != nil {
		return nil, err
	}

	user := "me"

	if maxResults <= 0 {
		maxResults = 20
	}
	if maxResults > 500 {
		maxResults = 500 // Gmail API maximum
	}

	listQuery := srv.Users.Messages.List(user).MaxResults(maxResults)
	if query != "" {
		listQuery = listQuery.Q(query)
	}
	if len(labelIDs) > 0 {
		listQuery = listQuery.LabelIds(labelIDs...)
	}

	messagesResp, err := listQuery.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %v", err)
	}

	if len(messagesResp.Messages) == 0 {
		return []*boarddomain.EmailSummary{}, nil
	}

	// Fetch message details in parallel. One failed fetch fails the whole
	// batch; a partial batch must never be persisted as if complete.
	type fetchResult struct {
		email *boarddomain.EmailSummary
		err   error
	}

	resultChan := make(chan fetchResult, len(messagesResp.Messages))
	semaphore := make(chan struct{}, maxConcurrentFetches)

	for _, msg := range messagesResp.Messages {
		go func(msgID string) {
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			fullMsg, err := srv.Users.Messages.Get(user, msgID).Format("full").Context(ctx).Do()
			if err != nil {
				resultChan <- fetchResult{nil, fmt.Errorf("unable to retrieve message %s: %v", msgID, err)}
				return
			}
			resultChan <- fetchResult{convertMessage(fullMsg), nil}
		}(msg.Id)
	}

	emails := make([]*boarddomain.EmailSummary, 0, len(messagesResp.Messages))
	var fetchErr error
	for i := 0; i < len(messagesResp.Messages); i++ {
		result := <-resultChan
		if result.err != nil {
			if fetchErr == nil {
				fetchErr = result.err
			}
			continue
		}
		emails = append(emails, result.email)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	emails = DedupeByThread(emails)

	sort.Slice(emails, func(i, j int) bool {
		return emails[i].Date.After(emails[j].Date)
	})

	return emails, nil
}

// GetByID fetches one message. The result is a single-element slice for
// interface symmetry with Search.
func (s *Service) GetByID(ctx context.Context, creds boarddomain.Credentials, id string, format boarddomain.MessageFormat) ([]*boarddomain.EmailSummary, error) {
	srv, err := s.getGmailService(ctx, creds)
	if err != nil {
		return nil, err
	}

	if format == "" {
		format = boarddomain.FormatFull
	}

	msg, err := srv.Users.Messages.Get("me", id).Format(string(format)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve message: %v", err)
	}

	return []*boarddomain.EmailSummary{convertMessage(msg)}, nil
}

// GetThreadsByLabel is Search restricted to a single label.
func (s *Service) GetThreadsByLabel(ctx context.Context, creds boarddomain.Credentials, labelID string) ([]*boarddomain.EmailSummary, error) {
	return s.Search(ctx, creds, "", []string{labelID}, 0)
}

// DedupeByThread keeps one message per thread id: the one with the latest
// date. Messages without a thread id are kept as-is.
func DedupeByThread(emails []*boarddomain.EmailSummary) []*boarddomain.EmailSummary {
	latest := make(map[string]*boarddomain.EmailSummary)
	order := make([]string, 0, len(emails))
	result := make([]*boarddomain.EmailSummary, 0, len(emails))

	for _, email := range emails {
		if email.ThreadID == "" {
			result = append(result, email)
			continue
		}
		existing, ok := latest[email.ThreadID]
		if !ok {
			latest[email.ThreadID] = email
			order = append(order, email.ThreadID)
			continue
		}
		if email.Date.After(existing.Date) {
			latest[email.ThreadID] = email
		}
	}

	for _, tid := range order {
		result = append(result, latest[tid])
	}
	return result
}

// System labels recognized by the boolean projection. Anything else is a
// custom label.
var systemLabels = map[string]struct{}{
	"STARRED":   {},
	"IMPORTANT": {},
	"INBOX":     {},
	"SENT":      {},
	"DRAFT":     {},
	"SPAM":      {},
	"TRASH":     {},
	"UNREAD":    {},
}

// ClassifyLabels translates a message's raw label list into the fixed
// boolean projection plus the residual custom labels. Ingestion and live
// fetch both go through here.
func ClassifyLabels(raw []string) boarddomain.LabelFlags {
	flags := boarddomain.LabelFlags{}
	for _, label := range raw {
		switch label {
		case "STARRED":
			flags.Starred = true
		case "IMPORTANT":
			flags.Important = true
		case "INBOX":
			flags.Inbox = true
		case "SENT":
			flags.Sent = true
		case "DRAFT":
			flags.Draft = true
		case "SPAM":
			flags.Spam = true
		case "TRASH":
			flags.Trash = true
		case "UNREAD":
			flags.Unread = true
		default:
			flags.Custom = append(flags.Custom, label)
		}
	}
	return flags
}

// Helper functions

func convertMessage(msg *gmail.Message) *boarddomain.EmailSummary {
	return &boarddomain.EmailSummary{
		ID:        msg.Id,
		ThreadID:  msg.ThreadId,
		Subject:   getHeader(msg.Payload, "Subject"),
		From:      getHeader(msg.Payload, "From"),
		To:        getHeader(msg.Payload, "To"),
		Snippet:   msg.Snippet,
		Body:      getHTMLBody(msg.Payload),
		Date:      time.Unix(msg.InternalDate/1000, 0),
		Labels:    ClassifyLabels(msg.LabelIds),
		RawLabels: msg.LabelIds,
	}
}

func getHeader(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, header := range payload.Headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

// getHTMLBody finds the first text/html part by depth-first search and
// decodes it. Empty string when the message has no HTML part.
func getHTMLBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if payload.MimeType == "text/html" && payload.Body != nil && payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(payload.Body.Data)
		if err == nil {
			return string(data)
		}
	}

	for _, part := range payload.Parts {
		if body := getHTMLBody(part); body != "" {
			return body
		}
	}

	return ""
}
