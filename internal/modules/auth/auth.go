package auth

import (
	"context"
	"time"
)

// Session identifies one anonymous visitor's cart. There are no accounts;
// the token only scopes a cart the way browser storage would.
type Session struct {
	ID        string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service defines the interface for cart session tokens.
type Service interface {
	IssueSession(ctx context.Context) (*Session, error)
	Verify(token string) (string, error)
}
