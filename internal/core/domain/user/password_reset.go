package user

import "time"

// PasswordResetToken is the raw secret delivered to the user. It is never stored.
type PasswordResetToken string

func (t PasswordResetToken) String() string {
	return "***"
}

type PasswordResetTokenHash string

type ResetToken struct {
	UserID    ID
	TokenHash PasswordResetTokenHash
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (t ResetToken) IsLive(at time.Time) bool {
	return at.Before(t.ExpiresAt)
}

type PasswordResetter interface {
	GenerateToken(user User) (PasswordResetToken, error)
	HashToken(token PasswordResetToken) PasswordResetTokenHash
}
