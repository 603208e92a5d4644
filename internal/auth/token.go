package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"

	"github.com/karan123216/Restaurant-Management-System/internal/identity"
)

type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Staff    bool   `json:"staff"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *TokenManager) Issue(u identity.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	tokenID, err := uuid.NewV4()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: failed to generate token id: %w", err)
	}

	claims := Claims{
		Username: u.Username,
		Email:    u.Email,
		Staff:    u.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        tokenID.String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

func (m *TokenManager) Parse(tokenString string) (identity.User, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return identity.Anonymous, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid {
		return identity.Anonymous, ErrInvalidToken
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil || id == uuid.Nil {
		return identity.Anonymous, ErrInvalidToken
	}

	return identity.User{
		ID:       id,
		Username: claims.Username,
		Email:    claims.Email,
		IsStaff:  claims.Staff,
	}, nil
}
