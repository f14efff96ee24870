package passwordresetter

import (
	"accounts/internal/core/domain/user"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

type SecretGenerator interface {
	GenerateSecret() (string, error)
}

// SHA256 issues tokens made of a random secret followed by the user ID and
// stores only their SHA-256 digest.
type SHA256 struct {
	secrets SecretGenerator
}

func NewSHA256(secrets SecretGenerator) *SHA256 {
	if secrets == nil {
		panic("secrets must not be nil")
	}
	return &SHA256{secrets: secrets}
}

func (r *SHA256) GenerateToken(u user.User) (user.PasswordResetToken, error) {
	secret, err := r.secrets.GenerateSecret()
	if err != nil {
		return "", fmt.Errorf("could not generate password reset secret: %w", err)
	}
	return user.PasswordResetToken(secret + string(u.ID)), nil
}

func (r *SHA256) HashToken(token user.PasswordResetToken) user.PasswordResetTokenHash {
	digest := sha256.Sum256([]byte(token))
	return user.PasswordResetTokenHash(hex.EncodeToString(digest[:]))
}
