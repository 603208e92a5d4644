package booking

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog/log"

	mailer "github.com/karan123216/Restaurant-Management-System/internal/mail"
)

type Service interface {
	Book(ctx context.Context, b Booking) (*Result, error)
}

type service struct {
	repo   Repository
	mailer mailer.Sender
	now    func() time.Time
}

func NewService(repo Repository, sender mailer.Sender, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, mailer: sender, now: now}
}

// Book saves the reservation first; a failed confirmation email is logged and reported
// in the result but never undoes the booking.
func (s *service) Book(ctx context.Context, b Booking) (*Result, error) {
	if err := b.Validate(s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &b); err != nil {
		log.Error().Err(err).Msg("service: failed to save booking")
		return nil, fmt.Errorf("service: failed to save booking: %w", err)
	}

	log.Info().Int64("booking_id", b.ID).Int("persons", b.TotalPersons).Str("date", b.BookingDate.Format(DateLayout)).Msg("Table booked")

	result := &Result{Booking: b}
	if b.Email == "" || s.mailer == nil {
		return result, nil
	}

	if err := s.mailer.Send(ctx, ConfirmationMessage(b)); err != nil {
		log.Error().Err(err).Int64("booking_id", b.ID).Msg("service: failed to send booking confirmation")
		return result, nil
	}

	result.EmailSent = true
	return result, nil
}

func ConfirmationMessage(b Booking) mailer.Message {
	date := b.BookingDate.Format(DateLayout)
	text := fmt.Sprintf("Dear %s,\n\nYour table for %d is booked on %s.\n\nThank you for choosing us!",
		b.Name, b.TotalPersons, date)
	body := fmt.Sprintf("<p>Dear %s,</p><p>Your table for <strong>%d</strong> is booked on <strong>%s</strong>.</p><p>Thank you for choosing us!</p>",
		html.EscapeString(b.Name), b.TotalPersons, date)

	return mailer.Message{
		To:       b.Email,
		Subject:  "Booking Confirmation",
		TextBody: text,
		HTMLBody: body,
	}
}
