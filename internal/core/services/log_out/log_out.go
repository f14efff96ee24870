package logout

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"errors"
)

type Input struct {
	Token user.SessionToken
}

type Result struct{}

type service struct {
	log     logging.Logger
	issuer  user.SessionTokenIssuer
	revoker user.SessionRevoker
}

func New(
	log logging.Logger,
	issuer user.SessionTokenIssuer,
	revoker user.SessionRevoker,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if issuer == nil {
		panic(e.NewNilArgumentError("issuer"))
	}
	if revoker == nil {
		panic(e.NewNilArgumentError("revoker"))
	}
	return &service{
		log:     log,
		issuer:  issuer,
		revoker: revoker,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	session, err := s.issuer.ParseToken(input.Token)
	if err != nil {
		return result, user.ErrInvalidSessionToken
	}
	err = s.revoker.Revoke(ctx, session)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("tokenID", session.TokenID))
		return result, err
	}
	s.log.Info(
		ctx,
		"Session token has been revoked.",
		logging.Entry("userID", session.UserID),
		logging.Entry("tokenID", session.TokenID),
	)
	return result, nil
}
