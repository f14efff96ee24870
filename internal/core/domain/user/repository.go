package user

import (
	c "accounts/internal/core/domain/common"
	"context"
	"time"
)

type CreateUserInput struct {
	ID           ID
	Name         string
	Email        c.Email
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

type UpdateUserInput struct {
	ID        ID
	Name      c.Optional[string]
	Photo     c.Optional[string]
	Phone     c.Optional[string]
	Bio       c.Optional[string]
	UpdatedAt time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	// Lock holds the user record until the surrounding unit of work ends.
	Lock(ctx context.Context, id ID) error
	SetPassword(ctx context.Context, id ID, password PasswordHash, at time.Time) error
	Update(ctx context.Context, input UpdateUserInput) (User, error)
}

type CreateResetTokenInput struct {
	UserID    ID
	TokenHash PasswordResetTokenHash
	CreatedAt time.Time
	ExpiresAt time.Time
}

type ResetTokenRepository interface {
	GetByUserID(ctx context.Context, userID ID) (ResetToken, error)
	DeleteForUser(ctx context.Context, userID ID) error
	Create(ctx context.Context, input CreateResetTokenInput) (ResetToken, error)
	// Consume deletes and returns the token with the given hash if it is still
	// live at the given moment. Otherwise ErrInvalidPasswordResetToken is returned.
	Consume(ctx context.Context, hash PasswordResetTokenHash, at time.Time) (ResetToken, error)
	DeleteExpired(ctx context.Context, at time.Time) (deleted int64, err error)
}
