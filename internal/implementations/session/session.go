package session

import (
	"accounts/internal/core/domain/user"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DEFAULT_TTL = 24 * time.Hour

// JWT issues HS256 signed session tokens carrying the user ID as subject and
// a random token ID used for revocation.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewJWT(secretKey string, ttl time.Duration, now func() time.Time) *JWT {
	if secretKey == "" {
		panic("secretKey must not be empty")
	}
	if now == nil {
		panic("now must not be nil")
	}
	if ttl <= 0 {
		ttl = DEFAULT_TTL
	}
	return &JWT{secretKey: []byte(secretKey), ttl: ttl, now: now}
}

func (j *JWT) IssueToken(u user.User) (s user.Session, err error) {
	if u.ID == "" {
		return s, errors.New("could not issue session token for user without ID")
	}
	issuedAt := j.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(j.ttl)
	tokenID := uuid.New().String()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   string(u.ID),
		ID:        tokenID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return s, err
	}
	return user.Session{
		Token:     user.SessionToken(signed),
		TokenID:   tokenID,
		UserID:    u.ID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

func (j *JWT) ParseToken(token user.SessionToken) (s user.Session, err error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(
		string(token),
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !parsed.Valid {
		return s, user.ErrInvalidSessionToken
	}
	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return s, user.ErrInvalidSessionToken
	}
	s = user.Session{
		Token:     token,
		TokenID:   claims.ID,
		UserID:    user.ID(claims.Subject),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return s, nil
}
