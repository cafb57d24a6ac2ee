// Package gmail is the mailbox client: credential refresh, message search,
// full message fetch and raw MIME send against the Gmail API, using a single
// service-account-style refresh token rather than per-user sessions.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"broker-portal-backend/pkg/mailbody"
)

const user = "me"

type Service struct {
	clientID     string
	clientSecret string
	refreshToken string
	sender       string
}

func NewService(clientID, clientSecret, refreshToken, sender string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
		sender:       sender,
	}
}

// Sender is the From address outbound mail is sent as.
func (s *Service) Sender() string { return s.sender }

// newAPIClient exchanges the refresh token for a bearer token and builds the
// API client. The exchange is forced eagerly so a rejected grant surfaces as
// an AuthError here instead of an opaque failure on the first API call.
func (s *Service) newAPIClient(ctx context.Context) (*gmailapi.Service, error) {
	if s.clientID == "" || s.clientSecret == "" || s.refreshToken == "" {
		return nil, &AuthError{Reason: "missing client id, client secret or refresh token"}
	}

	conf := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		RefreshToken: s.refreshToken,
		TokenType:    "Bearer",
		Expiry:       time.Now(), // force the refresh grant
	}

	source := conf.TokenSource(ctx, token)
	if _, err := source.Token(); err != nil {
		return nil, &AuthError{Reason: "token endpoint rejected the refresh grant", Err: err}
	}

	srv, err := gmailapi.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("unable to create gmail service: %w", err)
	}
	return srv, nil
}

// SearchMessages runs a provider search query (here always
// "in:inbox <request ref>") and returns id/thread summaries.
func (s *Service) SearchMessages(ctx context.Context, query string) ([]mailbody.MessageRef, error) {
	srv, err := s.newAPIClient(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Users.Messages.List(user).Q(query).Context(ctx).Do()
	if err != nil {
		return nil, &TransportError{Op: "search", StatusCode: statusOf(err), Err: err}
	}

	refs := make([]mailbody.MessageRef, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		refs = append(refs, mailbody.MessageRef{ID: m.Id, ThreadID: m.ThreadId})
	}
	return refs, nil
}

// GetMessage fetches a full message, including the part tree and the
// provider-assigned receipt timestamp.
func (s *Service) GetMessage(ctx context.Context, id string) (*mailbody.Message, error) {
	srv, err := s.newAPIClient(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := srv.Users.Messages.Get(user, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, &TransportError{Op: "fetch", StatusCode: statusOf(err), Err: err}
	}

	return &mailbody.Message{
		ID:         msg.Id,
		ThreadID:   msg.ThreadId,
		ReceivedAt: time.Unix(msg.InternalDate/1000, 0),
		Payload:    convertPart(msg.Payload),
	}, nil
}

// SendRaw submits an RFC-2822 MIME payload through the provider's raw send.
func (s *Service) SendRaw(ctx context.Context, mime []byte) error {
	srv, err := s.newAPIClient(ctx)
	if err != nil {
		return err
	}

	msg := &gmailapi.Message{
		Raw: base64.URLEncoding.EncodeToString(mime),
	}
	if _, err := srv.Users.Messages.Send(user, msg).Context(ctx).Do(); err != nil {
		return &SendError{StatusCode: statusOf(err), Err: err}
	}
	return nil
}

func convertPart(p *gmailapi.MessagePart) *mailbody.Part {
	if p == nil {
		return nil
	}

	part := &mailbody.Part{MimeType: p.MimeType}
	if p.Body != nil {
		part.Data = p.Body.Data
	}
	for _, child := range p.Parts {
		part.Parts = append(part.Parts, convertPart(child))
	}
	return part
}

func statusOf(err error) int {
	if apiErr, ok := err.(*googleapi.Error); ok {
		return apiErr.Code
	}
	return 0
}
