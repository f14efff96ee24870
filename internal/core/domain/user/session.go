package user

import (
	"context"
	"time"
)

type SessionToken string

func (t SessionToken) String() string {
	return "***"
}

type Session struct {
	Token     SessionToken
	TokenID   string
	UserID    ID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type SessionTokenIssuer interface {
	IssueToken(u User) (Session, error)
	// ParseToken returns ErrInvalidSessionToken for malformed, forged or expired tokens.
	ParseToken(token SessionToken) (Session, error)
}

type SessionRevoker interface {
	Revoke(ctx context.Context, session Session) error
	IsRevoked(ctx context.Context, session Session) (bool, error)
}
