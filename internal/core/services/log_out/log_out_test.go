package logout

import (
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var NOW time.Time = time.Now().UTC()

type testSuite struct {
	suite.Suite
	Logger  *logging.FakeLogger
	Issuer  *user.FakeSessionTokenIssuer
	Revoker *user.FakeSessionRevoker
	Service services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.Issuer = user.NewFakeSessionTokenIssuer(time.Hour, func() time.Time { return NOW })
	suite.Revoker = user.NewFakeSessionRevoker()
	suite.Service = New(
		suite.Logger,
		suite.Issuer,
		suite.Revoker,
	)
}

func TestLogOutService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestSuccess() {
	session := s.createSession()

	_, err := s.Service.Run(context.Background(), Input{Token: session.Token})
	s.Nil(err)
	s.True(s.isRevoked(session))
}

func (s *testSuite) TestErrorReturnedIfSessionTokenInvalid() {
	session := s.createSession()

	_, err := s.Service.Run(
		context.Background(),
		Input{Token: user.SessionToken("invalid-session-token")},
	)
	s.True(errors.Is(err, user.ErrInvalidSessionToken))
	s.False(s.isRevoked(session))
}

func (s *testSuite) TestRevokerError() {
	session := s.createSession()
	s.Revoker.ReturnError = true

	_, err := s.Service.Run(context.Background(), Input{Token: session.Token})
	s.Error(err)
	s.Equal(1, s.Logger.CountByLevel(logging.ERROR))
}

func (s *testSuite) createSession() user.Session {
	s.T().Helper()
	session, err := s.Issuer.IssueToken(user.User{ID: "user-1"})
	if err != nil {
		s.FailNow(err.Error())
	}
	return session
}

func (s *testSuite) isRevoked(session user.Session) bool {
	s.T().Helper()
	_, ok := s.Revoker.Revoked[session.TokenID]
	return ok
}
