package sendpasswordresettoken

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/notifier"
	uow "accounts/internal/core/domain/unit_of_work"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"errors"
	"fmt"
	"time"
)

const DEFAULT_TOKEN_TTL = 30 * time.Minute

type Input struct {
	Email c.Email
}

type Result struct {
	Token user.PasswordResetToken
}

type Config struct {
	TokenTTL    time.Duration
	FrontendURL string
	Sender      string
}

type service struct {
	log              logging.Logger
	unitOfWork       uow.UnitOfWork
	passwordResetter user.PasswordResetter
	notifier         notifier.Notifier
	config           Config
	now              func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	passwordResetter user.PasswordResetter,
	n notifier.Notifier,
	config Config,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if passwordResetter == nil {
		panic(e.NewNilArgumentError("passwordResetter"))
	}
	if n == nil {
		panic(e.NewNilArgumentError("notifier"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = DEFAULT_TOKEN_TTL
	}
	return &service{
		log:              log,
		unitOfWork:       unitOfWork,
		passwordResetter: passwordResetter,
		notifier:         n,
		config:           config,
		now:              now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, token, err := s.issue(ctx, input.Email)
	if err != nil {
		return result, err
	}

	message, err := NewMessage(u, token, s.config)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}
	if err := s.notifier.Send(ctx, message); err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset email.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		if !errors.Is(err, notifier.ErrDeliveryFailed) {
			err = fmt.Errorf("%w: %w", notifier.ErrDeliveryFailed, err)
		}
		return result, err
	}

	s.log.Info(ctx, "Password reset email has been sent.", logging.Entry("userID", u.ID))
	return Result{Token: token}, nil
}

// issue replaces any previous token of the user with a fresh one inside a single unit of work.
func (s *service) issue(ctx context.Context, email c.Email) (u user.User, token user.PasswordResetToken, err error) {
	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return u, token, err
	}
	if err != nil {
		s.log.Error(ctx, "Could not begin unit of work.", logging.Entry("err", err))
		return u, token, err
	}
	defer uow.Rollback(ctx)

	u, err = uow.Users().GetByEmail(ctx, email)
	if errors.Is(err, context.Canceled) {
		return u, token, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(ctx, "Password reset requested for unknown email.", logging.Entry("email", email))
		return u, token, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("email", email))
		return u, token, err
	}

	if err := uow.Users().Lock(ctx, u.ID); err != nil {
		if !errors.Is(err, context.Canceled) {
			logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		}
		return u, token, err
	}

	previous, err := uow.ResetTokens().GetByUserID(ctx, u.ID)
	switch {
	case err == nil:
		s.log.Info(
			ctx,
			"Previous password reset token is superseded.",
			logging.Entry("userID", u.ID),
			logging.Entry("previousExpiresAt", previous.ExpiresAt),
		)
		if err := uow.ResetTokens().DeleteForUser(ctx, u.ID); err != nil {
			if !errors.Is(err, context.Canceled) {
				logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
			}
			return u, token, err
		}
	case errors.Is(err, user.ErrResetTokenDoesNotExist):
	case errors.Is(err, context.Canceled):
		return u, token, err
	default:
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return u, token, err
	}

	token, err = s.passwordResetter.GenerateToken(u)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return u, token, err
	}
	now := s.now()
	_, err = uow.ResetTokens().Create(ctx, user.CreateResetTokenInput{
		UserID:    u.ID,
		TokenHash: s.passwordResetter.HashToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TokenTTL),
	})
	if errors.Is(err, context.Canceled) {
		return u, token, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return u, token, err
	}

	err = uow.Commit(ctx)
	if errors.Is(err, context.Canceled) {
		return u, token, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not commit unit of work.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return u, token, err
	}
	return u, token, nil
}
