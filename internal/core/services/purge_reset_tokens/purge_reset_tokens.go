package purgeresettokens

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"errors"
	"time"
)

type Input struct{}

type Result struct {
	Deleted int64
}

type service struct {
	log        logging.Logger
	repository user.ResetTokenRepository
	now        func() time.Time
}

func New(
	log logging.Logger,
	repository user.ResetTokenRepository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if repository == nil {
		panic(e.NewNilArgumentError("repository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:        log,
		repository: repository,
		now:        now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	deleted, err := s.repository.DeleteExpired(ctx, s.now())
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}
	if deleted > 0 {
		s.log.Info(ctx, "Expired password reset tokens purged.", logging.Entry("deleted", deleted))
	}
	return Result{Deleted: deleted}, nil
}
