package passwordresetter

import (
	"accounts/internal/core/domain/user"
	randomstringgenerator "accounts/internal/implementations/random_string_generator"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type failingSecrets struct{}

func (failingSecrets) GenerateSecret() (string, error) {
	return "", errors.New("entropy exhausted")
}

type testSuite struct {
	suite.Suite
	resetter *SHA256
	users    []user.User
}

func (s *testSuite) SetupTest() {
	s.resetter = NewSHA256(randomstringgenerator.NewGenerator(32))
	s.users = []user.User{
		{ID: "2Dn5bJQXcGKoKQ3ZsCV8Yzw3rBD"},
		{ID: "2Dn5bQ4Gq5Ym6S1t3pXn0vUeWcF"},
	}
}

func TestSHA256PasswordResetter(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestTokenEndsWithUserID() {
	for _, u := range s.users {
		token, err := s.resetter.GenerateToken(u)
		s.Require().NoError(err)
		s.True(strings.HasSuffix(string(token), string(u.ID)))
		s.Len(string(token), 64+len(u.ID))
	}
}

func (s *testSuite) TestTokensAreUnique() {
	tokens := make(map[user.PasswordResetToken]struct{})
	for i := 0; i < 100; i++ {
		token, err := s.resetter.GenerateToken(s.users[0])
		s.Require().NoError(err)
		s.NotContains(tokens, token)
		tokens[token] = struct{}{}
	}
}

func (s *testSuite) TestHashIsDeterministic() {
	token, err := s.resetter.GenerateToken(s.users[0])
	s.Require().NoError(err)

	hash := s.resetter.HashToken(token)
	s.Equal(hash, s.resetter.HashToken(token))
	s.Len(string(hash), 64)
	s.NotEqual(user.PasswordResetTokenHash(token), hash)
}

func (s *testSuite) TestKnownDigest() {
	s.Equal(
		user.PasswordResetTokenHash("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"),
		s.resetter.HashToken("abc"),
	)
}

func (s *testSuite) TestDifferentTokensDifferentHashes() {
	first, err := s.resetter.GenerateToken(s.users[0])
	s.Require().NoError(err)
	second, err := s.resetter.GenerateToken(s.users[0])
	s.Require().NoError(err)
	s.NotEqual(s.resetter.HashToken(first), s.resetter.HashToken(second))
}

func (s *testSuite) TestSecretGeneratorFailure() {
	_, err := NewSHA256(failingSecrets{}).GenerateToken(s.users[0])
	s.Error(err)
}
