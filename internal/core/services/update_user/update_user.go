package updateuser

import (
	c "accounts/internal/core/domain/common"
	e "accounts/internal/core/domain/errors"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"accounts/internal/core/services/auth"
	"context"
	"errors"
	"time"
)

type Input struct {
	UserID user.ID
	Name   c.Optional[string]
	Photo  c.Optional[string]
	Phone  c.Optional[string]
	Bio    c.Optional[string]
}

func (i Input) WithAuthenticatedUser(u user.User, s user.Session) auth.Input {
	i.UserID = u.ID
	return i
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	updatedUser, err := s.userRepository.Update(
		ctx,
		user.UpdateUserInput{
			ID:        input.UserID,
			Name:      nonEmpty(input.Name),
			Photo:     nonEmpty(input.Photo),
			Phone:     nonEmpty(input.Phone),
			Bio:       nonEmpty(input.Bio),
			UpdatedAt: s.now(),
		},
	)
	if errors.Is(err, context.Canceled) || errors.Is(err, user.ErrUserDoesNotExist) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.UserID))
		return result, err
	}

	s.log.Info(
		ctx,
		"User successfully updated.",
		logging.Entry("userID", updatedUser.ID),
	)
	result.User = updatedUser
	return result, nil
}

// Empty values keep the stored ones.
func nonEmpty(value c.Optional[string]) c.Optional[string] {
	return c.NewOptional(value.Value, value.IsPresent && value.Value != "")
}
