// Package token issues and verifies the HS256 bearer tokens handed to teachers.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/duccv/student-service/internal/apperror"
	"github.com/golang-jwt/jwt/v5"
)

// TTL is the fixed lifetime of every issued token.
const TTL = time.Hour

var ErrEmptySecret = errors.New("token: signing secret is empty")

// Claims is the signed claim set: the username plus issued-at and expiry.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// Option -.
type Option func(*Manager)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager fails when the secret is empty so a misconfigured process never starts serving.
func NewManager(secret string, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	m := &Manager{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)
	return m, nil
}

// Issue signs a token for username that expires one hour from now.
func (m *Manager) Issue(username string) (string, error) {
	now := m.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token signing failed: %w", err)
	}
	return signed, nil
}

// Parse returns the verified claims. Every failure is reported as apperror.ErrInvalidToken.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := m.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Username == "" {
		return nil, apperror.ErrInvalidToken
	}
	return claims, nil
}

// Verify returns the username carried by a valid token.
func (m *Manager) Verify(tokenString string) (string, error) {
	claims, err := m.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}
