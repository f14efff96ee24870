package resetpassword

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/notifier"
	uow "accounts/internal/core/domain/unit_of_work"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	sendpasswordresettoken "accounts/internal/core/services/send_password_reset_token"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	USER_ID = user.ID("user-1")
	EMAIL   = c.Email("alice@example.com")
)

var NOW = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	Logger         *logging.FakeLogger
	UnitOfWork     *uow.FakeUnitOfWork
	Resetter       *user.FakePasswordResetter
	PasswordHasher *user.FakePasswordHasher
	Now            time.Time
	Issue          services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	Service        services.Service[Input, Result]
}

func (s *testSuite) SetupTest() {
	s.Logger = logging.NewFakeLogger()
	s.UnitOfWork = uow.NewFakeUnitOfWork()
	s.Resetter = user.NewFakePasswordResetter("reset")
	s.PasswordHasher = user.NewFakePasswordHasher()
	s.Now = NOW
	now := func() time.Time { return s.Now }
	s.Issue = sendpasswordresettoken.New(
		s.Logger,
		s.UnitOfWork,
		s.Resetter,
		notifier.NewFakeNotifier(),
		sendpasswordresettoken.Config{FrontendURL: "https://app.test", Sender: "noreply@app.test"},
		now,
	)
	s.Service = New(s.Logger, s.UnitOfWork, s.Resetter, s.PasswordHasher, now)

	hash, err := s.PasswordHasher.HashPassword("secret1")
	s.Require().NoError(err)
	s.UnitOfWork.Context.UserRepository.Users = []user.User{{
		ID:           USER_ID,
		Name:         "Alice",
		Email:        EMAIL,
		PasswordHash: hash,
	}}
}

func TestResetPasswordService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) issue() user.PasswordResetToken {
	s.T().Helper()
	result, err := s.Issue.Run(context.Background(), sendpasswordresettoken.Input{Email: EMAIL})
	s.Require().NoError(err)
	return result.Token
}

func (s *testSuite) passwordIs(password user.RawPassword) bool {
	s.T().Helper()
	u, err := s.UnitOfWork.Context.UserRepository.GetByID(context.Background(), USER_ID)
	s.Require().NoError(err)
	return s.PasswordHasher.ValidatePassword(password, u.PasswordHash)
}

func (s *testSuite) TestRedeemWithinLifetime() {
	token := s.issue()
	s.Now = NOW.Add(10 * time.Minute)

	_, err := s.Service.Run(context.Background(), Input{Token: token, NewPassword: "secret2"})

	s.Require().NoError(err)
	s.True(s.UnitOfWork.Context.WasCommitCalled)
	s.True(s.passwordIs("secret2"))
	s.False(s.passwordIs("secret1"))
	s.Equal(0, s.UnitOfWork.Context.ResetTokenRepository.LiveCount(USER_ID, s.Now))
}

func (s *testSuite) TestExpiredToken() {
	token := s.issue()
	s.Now = NOW.Add(31 * time.Minute)

	_, err := s.Service.Run(context.Background(), Input{Token: token, NewPassword: "secret2"})

	s.ErrorIs(err, user.ErrInvalidPasswordResetToken)
	s.False(s.UnitOfWork.Context.WasCommitCalled)
	s.True(s.passwordIs("secret1"))
}

func (s *testSuite) TestTokenExpiresExactlyAtDeadline() {
	token := s.issue()
	s.Now = NOW.Add(30 * time.Minute)

	_, err := s.Service.Run(context.Background(), Input{Token: token, NewPassword: "secret2"})

	s.ErrorIs(err, user.ErrInvalidPasswordResetToken)
}

func (s *testSuite) TestSupersededToken() {
	first := s.issue()
	second := s.issue()

	_, err := s.Service.Run(context.Background(), Input{Token: first, NewPassword: "secret2"})
	s.ErrorIs(err, user.ErrInvalidPasswordResetToken)
	s.True(s.passwordIs("secret1"))

	_, err = s.Service.Run(context.Background(), Input{Token: second, NewPassword: "secret3"})
	s.Require().NoError(err)
	s.True(s.passwordIs("secret3"))
}

func (s *testSuite) TestTokenIsSingleUse() {
	token := s.issue()

	_, err := s.Service.Run(context.Background(), Input{Token: token, NewPassword: "secret2"})
	s.Require().NoError(err)

	_, err = s.Service.Run(context.Background(), Input{Token: token, NewPassword: "secret3"})
	s.ErrorIs(err, user.ErrInvalidPasswordResetToken)
	s.True(s.passwordIs("secret2"))
}

func (s *testSuite) TestUnknownToken() {
	s.issue()

	_, err := s.Service.Run(context.Background(), Input{Token: "forged", NewPassword: "secret2"})

	s.ErrorIs(err, user.ErrInvalidPasswordResetToken)
	s.True(s.passwordIs("secret1"))
	s.Equal(1, s.UnitOfWork.Context.ResetTokenRepository.LiveCount(USER_ID, NOW))
}

func (s *testSuite) TestDanglingTokenLoggedAsError() {
	token := s.issue()
	s.UnitOfWork.Context.UserRepository.Users = nil

	_, err := s.Service.Run(context.Background(), Input{Token: token, NewPassword: "secret2"})

	s.ErrorIs(err, user.ErrUserDoesNotExist)
	s.False(s.UnitOfWork.Context.WasCommitCalled)
	s.Equal(1, s.Logger.CountByLevel(logging.ERROR))
}
