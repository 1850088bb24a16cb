// Package token issues and verifies bearer tokens bound to a username.
// Tokens are ephemeral: minted on demand, verified per request, never
// persisted.
package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/memecat/memecat"
)

// User is a credential record from the relational user table.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
func (u User) VerifyPassword(password string) bool {
	return CheckPassword(u.PasswordHash, password)
}

// UserStore looks up credential records. Implementations return
// memecat.ErrNotFound for unknown usernames.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
}

// Token is an issued bearer credential.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Config holds signing settings.
type Config struct {
	Secret    string        `mapstructure:"secret" validate:"required"`
	Algorithm string        `mapstructure:"algorithm" validate:"required,oneof=HS256 HS384 HS512"`
	Expiry    time.Duration `mapstructure:"expiry" validate:"required"`
}

// Service signs and verifies JWTs against a user store.
type Service struct {
	cfg    Config
	users  UserStore
	method jwt.SigningMethod

	// now is swappable for expiry tests.
	now func() time.Time
}

func NewService(cfg Config, users UserStore) (*Service, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("new token service: secret is required")
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = 15 * time.Minute
	}

	method := jwt.GetSigningMethod(strings.ToUpper(cfg.Algorithm))
	if method == nil {
		return nil, fmt.Errorf("new token service: unknown algorithm %q", cfg.Algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("new token service: algorithm %q is not an HMAC method", cfg.Algorithm)
	}

	return &Service{
		cfg:    cfg,
		users:  users,
		method: method,
		now:    time.Now,
	}, nil
}

// Issue authenticates username/password and mints a signed bearer token
// carrying the subject and an expiry claim. A lookup miss and a password
// mismatch are indistinguishable to the caller.
func (s *Service) Issue(ctx context.Context, username, password string) (Token, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, memecat.ErrNotFound) {
			return Token{}, fmt.Errorf("issue token: %w", memecat.ErrInvalidCredentials)
		}
		return Token{}, fmt.Errorf("issue token: %w", err)
	}

	if !user.VerifyPassword(password) {
		return Token{}, fmt.Errorf("issue token: %w", memecat.ErrInvalidCredentials)
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub": user.Username,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.Expiry).Unix(),
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return Token{}, fmt.Errorf("issue token: sign: %w", err)
	}

	return Token{AccessToken: signed, TokenType: "bearer"}, nil
}

// Verify decodes a bearer token and returns its subject. Expired, malformed
// and mis-signed tokens are rejected from the token alone; only after that
// is the subject checked against the user store.
func (s *Service) Verify(ctx context.Context, tokenString string) (string, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("verify token: %w", memecat.ErrInvalidToken)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("verify token: missing subject: %w", memecat.ErrInvalidToken)
	}

	if _, err := s.users.GetByUsername(ctx, subject); err != nil {
		if errors.Is(err, memecat.ErrNotFound) {
			return "", fmt.Errorf("verify token: %w", memecat.ErrUserNotFound)
		}
		return "", fmt.Errorf("verify token: %w", err)
	}

	return subject, nil
}
