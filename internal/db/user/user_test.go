package user

import (
	c "accounts/internal/core/domain/common"
	"accounts/internal/core/domain/user"
	"accounts/internal/db"
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/suite"
)

const (
	USER_ID       = user.ID("2Dn5bJQXcGKoKQ3ZsCV8Yzw3rBD")
	EMAIL         = c.Email("test@test.test")
	PASSWORD_HASH = user.PasswordHash("test-password-hash")
)

var NOW time.Time = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

type testSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *PgxUserRepository
}

func (suite *testSuite) SetupSuite() {
	suite.pool = db.CreateTestPool()
	suite.repo = NewPgxRepository(suite.pool)
}

func (suite *testSuite) TearDownSuite() {
	suite.pool.Close()
}

func (suite *testSuite) TearDownTest() {
	db.TruncateTables(suite.pool)
}

func TestPgxUserRepository(t *testing.T) {
	db.RequireTestURL(t)
	suite.Run(t, new(testSuite))
}

func (s *testSuite) createUser() user.User {
	s.T().Helper()
	u, err := s.repo.Create(context.Background(), user.CreateUserInput{
		ID:           USER_ID,
		Name:         "John",
		Email:        EMAIL,
		PasswordHash: PASSWORD_HASH,
		CreatedAt:    NOW,
	})
	s.Require().NoError(err)
	return u
}

func (s *testSuite) TestCreateSuccess() {
	u := s.createUser()

	s.Equal(USER_ID, u.ID)
	s.Equal("John", u.Name)
	s.Equal(EMAIL, u.Email)
	s.Equal(PASSWORD_HASH, u.PasswordHash)
	s.False(u.Photo.IsPresent)
	s.False(u.Phone.IsPresent)
	s.False(u.Bio.IsPresent)
	s.True(NOW.Equal(u.CreatedAt))
	s.True(NOW.Equal(u.UpdatedAt))
}

func (s *testSuite) TestCreateDuplicateEmail() {
	s.createUser()

	_, err := s.repo.Create(context.Background(), user.CreateUserInput{
		ID:           "other",
		Email:        EMAIL,
		PasswordHash: PASSWORD_HASH,
		CreatedAt:    NOW,
	})
	s.ErrorIs(err, user.ErrEmailAlreadyExists)
}

func (s *testSuite) TestEmailIsCaseSensitive() {
	s.createUser()

	_, err := s.repo.Create(context.Background(), user.CreateUserInput{
		ID:           "other",
		Email:        "TEST@test.test",
		PasswordHash: PASSWORD_HASH,
		CreatedAt:    NOW,
	})
	s.Require().NoError(err)

	_, err = s.repo.GetByEmail(context.Background(), "Test@Test.test")
	s.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *testSuite) TestGet() {
	created := s.createUser()

	byID, err := s.repo.GetByID(context.Background(), USER_ID)
	s.Require().NoError(err)
	s.Equal(created, byID)

	byEmail, err := s.repo.GetByEmail(context.Background(), EMAIL)
	s.Require().NoError(err)
	s.Equal(created, byEmail)

	_, err = s.repo.GetByID(context.Background(), "unknown")
	s.ErrorIs(err, user.ErrUserDoesNotExist)
	_, err = s.repo.GetByEmail(context.Background(), "unknown@test.test")
	s.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *testSuite) TestSetPassword() {
	s.createUser()
	at := NOW.Add(time.Hour)

	err := s.repo.SetPassword(context.Background(), USER_ID, "new-hash", at)
	s.Require().NoError(err)

	u, err := s.repo.GetByID(context.Background(), USER_ID)
	s.Require().NoError(err)
	s.Equal(user.PasswordHash("new-hash"), u.PasswordHash)
	s.True(at.Equal(u.UpdatedAt))

	err = s.repo.SetPassword(context.Background(), "unknown", "new-hash", at)
	s.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *testSuite) TestUpdate() {
	s.createUser()
	at := NOW.Add(time.Hour)

	u, err := s.repo.Update(context.Background(), user.UpdateUserInput{
		ID:        USER_ID,
		Phone:     c.NewOptional("+100", true),
		Bio:       c.NewOptional("bio", true),
		UpdatedAt: at,
	})
	s.Require().NoError(err)
	s.Equal("John", u.Name)
	s.Equal(c.NewOptional("+100", true), u.Phone)
	s.Equal(c.NewOptional("bio", true), u.Bio)
	s.False(u.Photo.IsPresent)
	s.True(at.Equal(u.UpdatedAt))

	u, err = s.repo.Update(context.Background(), user.UpdateUserInput{
		ID:        USER_ID,
		Name:      c.NewOptional("Jane", true),
		UpdatedAt: at,
	})
	s.Require().NoError(err)
	s.Equal("Jane", u.Name)
	s.Equal(c.NewOptional("+100", true), u.Phone)

	_, err = s.repo.Update(context.Background(), user.UpdateUserInput{ID: "unknown", UpdatedAt: at})
	s.ErrorIs(err, user.ErrUserDoesNotExist)
}

func (s *testSuite) TestLockUnknownUser() {
	err := s.repo.Lock(context.Background(), "unknown")
	s.ErrorIs(err, user.ErrUserDoesNotExist)
}
