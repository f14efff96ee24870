package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists        = errors.New("email already exists")
	ErrUserDoesNotExist          = errors.New("user does not exist")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrInvalidSessionToken       = errors.New("invalid session token")
	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")
	ErrResetTokenDoesNotExist    = errors.New("password reset token does not exist")
)
