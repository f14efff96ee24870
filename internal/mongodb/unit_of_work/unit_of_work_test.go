package uow

import (
	"accounts/internal/core/domain/user"
	"accounts/internal/mongodb"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
)

const USER_ID = user.ID("user-1")

var NOW = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	client *mongo.Client
	db     *mongo.Database
	uow    *MongoUnitOfWork
}

func (s *testSuite) SetupSuite() {
	s.client, s.db = mongodb.CreateTestDatabase()
	s.uow = NewMongoUnitOfWork(s.client, s.db)
}

func (s *testSuite) TearDownSuite() {
	mongodb.DropTestDatabase(s.client, s.db)
}

func (s *testSuite) SetupTest() {
	ctx := context.Background()
	uow, err := s.uow.Begin(ctx)
	s.Require().NoError(err)
	defer uow.Rollback(ctx)
	_, err = uow.Users().Create(ctx, user.CreateUserInput{
		ID:           USER_ID,
		Email:        "test@test.test",
		PasswordHash: "hash",
		CreatedAt:    NOW,
	})
	s.Require().NoError(err)
	s.Require().NoError(uow.Commit(ctx))
}

func (s *testSuite) TearDownTest() {
	mongodb.TruncateCollections(s.db)
}

func TestMongoUnitOfWork(t *testing.T) {
	mongodb.RequireTestURL(t)
	suite.Run(t, new(testSuite))
}

func (s *testSuite) createToken(hash user.PasswordResetTokenHash) {
	ctx := context.Background()
	uow, err := s.uow.Begin(ctx)
	s.Require().NoError(err)
	defer uow.Rollback(ctx)
	_, err = uow.ResetTokens().Create(ctx, user.CreateResetTokenInput{
		UserID:    USER_ID,
		TokenHash: hash,
		CreatedAt: NOW,
		ExpiresAt: NOW.Add(time.Hour),
	})
	s.Require().NoError(err)
	s.Require().NoError(uow.Commit(ctx))
}

func (s *testSuite) TestRollbackDiscardsChanges() {
	ctx := context.Background()
	uow, err := s.uow.Begin(ctx)
	s.Require().NoError(err)
	err = uow.Users().SetPassword(ctx, USER_ID, "changed", NOW)
	s.Require().NoError(err)
	s.Require().NoError(uow.Rollback(ctx))

	check, err := s.uow.Begin(ctx)
	s.Require().NoError(err)
	defer check.Rollback(ctx)
	u, err := check.Users().GetByID(ctx, USER_ID)
	s.Require().NoError(err)
	s.Equal(user.PasswordHash("hash"), u.PasswordHash)
}

func (s *testSuite) TestConsumeAndPasswordCommitTogether() {
	s.createToken("hash")
	ctx := context.Background()

	uow, err := s.uow.Begin(ctx)
	s.Require().NoError(err)
	token, err := uow.ResetTokens().Consume(ctx, "hash", NOW)
	s.Require().NoError(err)
	s.Require().NoError(uow.Users().SetPassword(ctx, token.UserID, "new", NOW))
	s.Require().NoError(uow.Commit(ctx))
	s.NoError(uow.Rollback(ctx))

	check, err := s.uow.Begin(ctx)
	s.Require().NoError(err)
	defer check.Rollback(ctx)
	_, err = check.ResetTokens().GetByUserID(ctx, USER_ID)
	s.ErrorIs(err, user.ErrResetTokenDoesNotExist)
	u, err := check.Users().GetByID(ctx, USER_ID)
	s.Require().NoError(err)
	s.Equal(user.PasswordHash("new"), u.PasswordHash)
}

// Only one of many concurrent redemptions of the same token may succeed.
func (s *testSuite) TestConcurrentConsume() {
	s.createToken("hash")

	var wg sync.WaitGroup
	var succeeded int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := context.Background()
			uow, err := s.uow.Begin(ctx)
			if err != nil {
				return
			}
			defer uow.Rollback(ctx)

			token, err := uow.ResetTokens().Consume(ctx, "hash", NOW)
			if err != nil {
				return
			}
			password := user.PasswordHash(fmt.Sprintf("password-%d", i))
			if err := uow.Users().SetPassword(ctx, token.UserID, password, NOW); err != nil {
				return
			}
			if uow.Commit(ctx) == nil {
				atomic.AddInt32(&succeeded, 1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), succeeded)
}
