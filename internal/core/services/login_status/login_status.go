package loginstatus

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
)

type Input struct {
	Token user.SessionToken
}

type Result struct {
	IsLoggedIn bool
}

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

// Run never fails: anything that prevents confirming the session reports the caller as logged out.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		return result, nil
	}
	session, err := s.issuer.ParseToken(input.Token)
	if err != nil {
		return result, nil
	}
	isRevoked, err := s.revoker.IsRevoked(ctx, session)
	if err != nil {
		s.log.Warning(
			ctx,
			"Could not check session revocation.",
			logging.Entry("tokenID", session.TokenID),
			logging.Entry("err", err),
		)
		return result, nil
	}
	return Result{IsLoggedIn: !isRevoked}, nil
}
