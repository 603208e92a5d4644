// Package mail delivers transactional email such as booking confirmations and order receipts.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/keighl/postmark"
	"github.com/rs/zerolog/log"
)

var ErrUnavailable = errors.New("mail: delivery temporarily unavailable")

type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// PostmarkSender sends through the Postmark API.
type PostmarkSender struct {
	client *postmark.Client
	from   string
}

func NewPostmarkSender(serverToken, from string) *PostmarkSender {
	return &PostmarkSender{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}
}

// WithBaseURL points the client at another API root.
func (s *PostmarkSender) WithBaseURL(url string) *PostmarkSender {
	s.client.BaseURL = url
	return s
}

func (s *PostmarkSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := s.client.SendEmail(postmark.Email{
		From:     s.from,
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTMLBody,
		TextBody: msg.TextBody,
	})
	if err != nil {
		return fmt.Errorf("mail: failed to send %q to %s: %w", msg.Subject, msg.To, err)
	}

	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Str("message_id", res.MessageID).Msg("Email sent")
	return nil
}

// LogSender only logs outgoing mail. Used when no Postmark token is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("Email delivery disabled, message logged only")
	return nil
}
