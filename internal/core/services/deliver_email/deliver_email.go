package deliveremail

import (
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/notifier"
	"accounts/internal/core/services"
	"context"
	"errors"
)

type Input struct {
	Message notifier.Message
}

type Result struct{}

type service struct {
	log      logging.Logger
	notifier notifier.Notifier
}

// New returns the service that hands a queued message over to the actual email provider.
func New(log logging.Logger, n notifier.Notifier) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if n == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	return &service{log: log, notifier: n}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Message.To == "" {
		s.log.Warning(ctx, "Queued email has no recipient, skipped.", logging.Entry("subject", input.Message.Subject))
		return result, nil
	}
	err = s.notifier.Send(ctx, input.Message)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not deliver queued email.",
			logging.Entry("to", input.Message.To),
			logging.Entry("err", err),
		)
		return result, err
	}
	s.log.Info(ctx, "Queued email delivered.", logging.Entry("to", input.Message.To))
	return result, nil
}
