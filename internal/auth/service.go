package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/karan123216/Restaurant-Management-System/internal/identity"
)

type Service interface {
	Signup(ctx context.Context, username, email, password string) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (identity.User, error)
	EnsureAdmin(ctx context.Context, username, password string) error
}

type service struct {
	repo   Repository
	tokens *TokenManager
}

func NewService(repo Repository, tokens *TokenManager) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Signup(ctx context.Context, username, email, password string) (*Session, error) {
	u, err := s.createUser(ctx, strings.TrimSpace(username), strings.TrimSpace(email), password, false)
	if err != nil {
		return nil, err
	}

	log.Info().Stringer("user_id", u.ID).Str("username", u.Username).Msg("User signed up")
	return s.session(u)
}

func (s *service) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}

		log.Error().Err(err).Str("username", username).Msg("service: failed to load user for login")
		return nil, fmt.Errorf("service: failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("username", username).Msg("service: login with wrong password")
		return nil, ErrInvalidCredentials
	}

	return s.session(u)
}

// Authenticate verifies the token and reloads the account it names. Staff status and
// contact details come from the stored user, so a demotion takes effect on the next request.
func (s *service) Authenticate(ctx context.Context, token string) (identity.User, error) {
	claimed, err := s.tokens.Parse(token)
	if err != nil {
		return identity.Anonymous, err
	}

	u, err := s.repo.GetByID(ctx, claimed.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Warn().Stringer("user_id", claimed.ID).Msg("service: token for unknown user")
			return identity.Anonymous, ErrInvalidToken
		}

		log.Error().Err(err).Stringer("user_id", claimed.ID).Msg("service: failed to load user for token")
		return identity.Anonymous, fmt.Errorf("service: failed to load user: %w", err)
	}

	return u.Identity(), nil
}

// EnsureAdmin creates the bootstrap staff account, or promotes it when it already exists.
func (s *service) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.IsStaff {
			return nil
		}
		if err := s.repo.SetStaff(ctx, username, true); err != nil {
			return fmt.Errorf("service: failed to promote %q: %w", username, err)
		}
		log.Info().Str("username", username).Msg("Existing user promoted to staff")
		return nil
	case !errors.Is(err, ErrUserNotFound):
		return fmt.Errorf("service: failed to look up admin %q: %w", username, err)
	}

	if password == "" {
		return fmt.Errorf("service: admin %q does not exist and no password is configured", username)
	}

	if _, err := s.createUser(ctx, username, "", password, true); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil
		}
		return err
	}

	log.Info().Str("username", username).Msg("Admin user created")
	return nil
}

func (s *service) createUser(ctx context.Context, username, email, password string, staff bool) (*User, error) {
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to hash password")
		return nil, fmt.Errorf("internal error hashing password: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate user id: %w", err)
	}

	u := &User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsStaff:      staff,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}

		log.Error().Err(err).Str("username", username).Msg("service: failed to create user")
		return nil, fmt.Errorf("service: failed to save user: %w", err)
	}

	return u, nil
}

func (s *service) session(u *User) (*Session, error) {
	who := u.Identity()

	token, expiresAt, err := s.tokens.Issue(who)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpiresAt: expiresAt, User: who}, nil
}
