package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

type service struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewService creates a session service signing HS256 tokens with secret.
func NewService(secret string, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &service{key: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *service) IssueSession(ctx context.Context) (*Session, error) {
	id := uuid.New().String()
	expirationTime := s.now().Add(s.ttl)
	claims := &jwt.StandardClaims{
		Subject:   id,
		IssuedAt:  s.now().Unix(),
		ExpiresAt: expirationTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &Session{ID: id, Token: tokenString, ExpiresAt: time.Unix(claims.ExpiresAt, 0)}, nil
}

// Verify returns the session id carried by a valid, unexpired token.
func (s *service) Verify(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
