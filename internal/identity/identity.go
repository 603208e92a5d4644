// Package identity carries the authenticated caller through the service layer.
//
// Every service operation receives a User value explicitly. The HTTP layer resolves it
// from the bearer token and stores it on the request context only to hand it over.
package identity

import (
	"context"
	"errors"

	"github.com/gofrs/uuid"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("staff privileges required")
)

// User is the caller of an operation. The zero value means "no session".
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
	IsStaff  bool      `json:"is_staff"`
}

// Anonymous is the caller without a session.
var Anonymous = User{}

func (u User) Authenticated() bool {
	return u.ID != uuid.Nil
}

// RequireSession returns ErrUnauthenticated for the anonymous caller.
func (u User) RequireSession() error {
	if !u.Authenticated() {
		return ErrUnauthenticated
	}

	return nil
}

// RequireStaff returns ErrUnauthenticated or ErrForbidden unless u is a staff member.
func (u User) RequireStaff() error {
	if err := u.RequireSession(); err != nil {
		return err
	}
	if !u.IsStaff {
		return ErrForbidden
	}

	return nil
}

type ctxKey struct{}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the caller stored by WithUser, or Anonymous.
func FromContext(ctx context.Context) User {
	u, ok := ctx.Value(ctxKey{}).(User)
	if !ok {
		return Anonymous
	}

	return u
}
