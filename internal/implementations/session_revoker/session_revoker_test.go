package sessionrevoker

import (
	"accounts/internal/core/domain/user"
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	client  *redis.Client
	revoker *Redis
	now     time.Time
}

func TestSessionRevokerOnMiniredis(t *testing.T) {
	server := miniredis.RunT(t)
	s := &testSuite{client: redis.NewClient(&redis.Options{Addr: server.Addr()})}
	defer s.client.Close()
	suite.Run(t, s)
}

func TestRedisSessionRevoker(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}
	options, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("invalid TEST_REDIS_URL: %v", err)
	}
	s := &testSuite{client: redis.NewClient(options)}
	defer s.client.Close()
	suite.Run(t, s)
}

func (s *testSuite) SetupTest() {
	s.now = time.Now().UTC()
	s.revoker = NewRedis(s.client, func() time.Time { return s.now })
}

func (s *testSuite) newSession(lifetime time.Duration) user.Session {
	return user.Session{
		TokenID:   uuid.New().String(),
		UserID:    "user-1",
		IssuedAt:  s.now,
		ExpiresAt: s.now.Add(lifetime),
	}
}

func (s *testSuite) TestRevokedSession() {
	ctx := context.Background()
	session := s.newSession(time.Hour)

	isRevoked, err := s.revoker.IsRevoked(ctx, session)
	s.Require().NoError(err)
	s.False(isRevoked)

	s.Require().NoError(s.revoker.Revoke(ctx, session))

	isRevoked, err = s.revoker.IsRevoked(ctx, session)
	s.Require().NoError(err)
	s.True(isRevoked)

	userID, err := s.client.Get(ctx, key(session)).Result()
	s.Require().NoError(err)
	s.Equal("user-1", userID)

	ttl, err := s.client.TTL(ctx, key(session)).Result()
	s.Require().NoError(err)
	s.LessOrEqual(ttl, time.Hour)
	s.Greater(ttl, 59*time.Minute)
}

func (s *testSuite) TestOtherSessionsUnaffected() {
	ctx := context.Background()
	revoked := s.newSession(time.Hour)
	other := s.newSession(time.Hour)
	s.Require().NoError(s.revoker.Revoke(ctx, revoked))

	isRevoked, err := s.revoker.IsRevoked(ctx, other)
	s.Require().NoError(err)
	s.False(isRevoked)
}

func (s *testSuite) TestExpiredSessionNotStored() {
	ctx := context.Background()
	session := s.newSession(-time.Minute)
	s.Require().NoError(s.revoker.Revoke(ctx, session))

	count, err := s.client.Exists(ctx, key(session)).Result()
	s.Require().NoError(err)
	s.Equal(int64(0), count)
}
