package auth

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"errors"
)

type contextAuthToken string

const CONTEXT_AUTH_TOKEN_KEY = contextAuthToken("authToken")

type Input interface {
	WithAuthenticatedUser(u user.User, s user.Session) Input
}

// Authenticator resolves the session token stored in the context into a live session and its user.
type Authenticator struct {
	log            logging.Logger
	issuer         user.SessionTokenIssuer
	revoker        user.SessionRevoker
	userRepository user.UserRepository
}

func NewAuthenticator(
	log logging.Logger,
	issuer user.SessionTokenIssuer,
	revoker user.SessionRevoker,
	userRepository user.UserRepository,
) *Authenticator {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if issuer == nil {
		panic(e.NewNilArgumentError("issuer"))
	}
	if revoker == nil {
		panic(e.NewNilArgumentError("revoker"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	return &Authenticator{
		log:            log,
		issuer:         issuer,
		revoker:        revoker,
		userRepository: userRepository,
	}
}

func (a *Authenticator) Authenticate(ctx context.Context) (u user.User, session user.Session, err error) {
	token, ok := ctx.Value(CONTEXT_AUTH_TOKEN_KEY).(user.SessionToken)
	if !ok || token == "" {
		return u, session, user.ErrUserDoesNotExist
	}
	session, err = a.issuer.ParseToken(token)
	if err != nil {
		return u, session, user.ErrUserDoesNotExist
	}
	isRevoked, err := a.revoker.IsRevoked(ctx, session)
	if errors.Is(err, context.Canceled) {
		return u, session, err
	}
	if err != nil {
		logging.Error(ctx, a.log, err, logging.Entry("tokenID", session.TokenID))
		return u, session, err
	}
	if isRevoked {
		return u, session, user.ErrUserDoesNotExist
	}
	u, err = a.userRepository.GetByID(ctx, session.UserID)
	if errors.Is(err, context.Canceled) || errors.Is(err, user.ErrUserDoesNotExist) {
		return u, session, err
	}
	if err != nil {
		logging.Error(ctx, a.log, err, logging.Entry("userID", session.UserID))
		return u, session, err
	}
	return u, session, nil
}

type service[T Input, S any] struct {
	authenticator *Authenticator
	inner         services.Service[T, S]
}

func WithAuthentication[T Input, S any](
	authenticator *Authenticator,
	inner services.Service[T, S],
) services.Service[T, S] {
	if authenticator == nil {
		panic(e.NewNilArgumentError("authenticator"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		authenticator: authenticator,
		inner:         inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	u, session, err := s.authenticator.Authenticate(ctx)
	if err != nil {
		return result, err
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUser(u, session).(T))
}
