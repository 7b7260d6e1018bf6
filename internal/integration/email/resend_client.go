package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/resend/resend-go/v2"

	"github.com/kakeibo/backend/internal/application/adapter"
	domainerror "github.com/kakeibo/backend/internal/domain/error"
)

// ResendClient implements the adapter.EmailSender interface using Resend.
type ResendClient struct {
	client    *resend.Client
	fromName  string
	fromEmail string
}

// NewResendClient creates a new Resend client.
func NewResendClient(apiKey, fromName, fromEmail string) *ResendClient {
	return &ResendClient{
		client:    resend.NewClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// Send sends an email via Resend.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	to := input.To
	if input.Name != "" {
		to = fmt.Sprintf("%s <%s>", input.Name, input.To)
	}

	resp, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{to},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
	})
	if err != nil {
		if isPermanentError(err) {
			return nil, fmt.Errorf("%w: %v", domainerror.ErrPermanentEmailFailure, err)
		}
		return nil, fmt.Errorf("%w: %v", domainerror.ErrEmailSendFailed, err)
	}

	return &adapter.SendEmailResult{ProviderID: resp.Id}, nil
}

// isPermanentError reports provider rejections that will fail again on retry:
// 401, 403 and 422. Rate limits and 5xx are temporary.
func isPermanentError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"401", "403", "422", "unauthorized", "forbidden", "validation", "invalid"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// LogSender logs messages instead of sending them. It is used when no Resend
// API key is configured. With Record set, sent messages are kept in Sent.
type LogSender struct {
	Record bool
	Sent   []adapter.SendEmailInput
	Err    error

	mu    sync.Mutex
	count int
}

// Send implements adapter.EmailSender.
func (s *LogSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	if s.Record {
		s.Sent = append(s.Sent, input)
	}

	slog.Info("Email not sent, no provider configured",
		"to", input.To,
		"subject", input.Subject,
	)
	return &adapter.SendEmailResult{ProviderID: fmt.Sprintf("log-%d", s.count)}, nil
}

var (
	_ adapter.EmailSender = (*ResendClient)(nil)
	_ adapter.EmailSender = (*LogSender)(nil)
)
