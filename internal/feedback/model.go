// Package feedback stores guest reviews shown on the home page.
package feedback

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrInvalidFeedback = errors.New("invalid feedback")

const (
	MinRating   = 1
	MaxRating   = 5
	maxUserName = 50
)

type Feedback struct {
	ID          int64     `json:"id"`
	UserName    string    `json:"user_name"`
	Description string    `json:"description"`
	Rating      int       `json:"rating"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate trims the text fields and checks the rating range.
func (f *Feedback) Validate() error {
	f.UserName = strings.TrimSpace(f.UserName)
	f.Description = strings.TrimSpace(f.Description)

	switch {
	case f.UserName == "" || utf8.RuneCountInString(f.UserName) > maxUserName:
		return fmt.Errorf("%w: user name must be 1..%d characters", ErrInvalidFeedback, maxUserName)
	case f.Description == "":
		return fmt.Errorf("%w: description is required", ErrInvalidFeedback)
	case f.Rating < MinRating || f.Rating > MaxRating:
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidFeedback, MinRating, MaxRating)
	}

	return nil
}
