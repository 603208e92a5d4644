// Package booking takes table reservations and confirms them by email.
package booking

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrInvalidBooking = errors.New("invalid booking")

const (
	maxName  = 50
	maxPhone = 15
	// DateLayout is the wire and storage format of a booking date.
	DateLayout = "2006-01-02"
)

type Booking struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Email        string    `json:"email,omitempty"`
	TotalPersons int       `json:"total_persons"`
	BookingDate  time.Time `json:"booking_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// Result is a saved booking plus whether the confirmation went out.
type Result struct {
	Booking   Booking `json:"booking"`
	EmailSent bool    `json:"email_sent"`
}

// Validate normalises b and checks it against today's date.
func (b *Booking) Validate(today time.Time) error {
	b.Name = strings.TrimSpace(b.Name)
	b.PhoneNumber = strings.TrimSpace(b.PhoneNumber)
	b.Email = strings.TrimSpace(b.Email)

	switch {
	case b.Name == "" || utf8.RuneCountInString(b.Name) > maxName:
		return fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidBooking, maxName)
	case b.PhoneNumber == "" || len(b.PhoneNumber) > maxPhone:
		return fmt.Errorf("%w: phone number must be 1..%d characters", ErrInvalidBooking, maxPhone)
	case b.TotalPersons < 1:
		return fmt.Errorf("%w: total persons must be at least 1", ErrInvalidBooking)
	case b.BookingDate.IsZero():
		return fmt.Errorf("%w: booking date is required", ErrInvalidBooking)
	}

	if b.Email != "" {
		if _, err := mail.ParseAddress(b.Email); err != nil {
			return fmt.Errorf("%w: email is not valid", ErrInvalidBooking)
		}
	}

	day := truncateDay(b.BookingDate)
	if day.Before(truncateDay(today)) {
		return fmt.Errorf("%w: booking date is in the past", ErrInvalidBooking)
	}
	b.BookingDate = day

	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
