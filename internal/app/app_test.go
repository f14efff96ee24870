package app

import (
	"accounts/internal/app/deps"
	"accounts/internal/app/services"
	"accounts/internal/config"
	"accounts/internal/core/domain/logging"
	"accounts/internal/core/domain/notifier"
	uow "accounts/internal/core/domain/unit_of_work"
	"accounts/internal/core/domain/user"
	"accounts/internal/implementations/email"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/suite"
)

type nopSESClient struct{}

func (c nopSESClient) SendEmail(
	ctx context.Context,
	params *ses.SendEmailInput,
	optFns ...func(*ses.Options),
) (*ses.SendEmailOutput, error) {
	return &ses.SendEmailOutput{}, nil
}

type testSuite struct {
	suite.Suite
	now      time.Time
	notifier *notifier.FakeNotifier
	revoker  *user.FakeSessionRevoker
	router   http.Handler
}

func (s *testSuite) SetupTest() {
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return s.now }
	unitOfWork := uow.NewFakeUnitOfWork()
	s.notifier = notifier.NewFakeNotifier()
	s.revoker = user.NewFakeSessionRevoker()

	d := &deps.Deps{
		Config: &config.Config{
			FrontendURL:    "https://app.test",
			AwsEmailSender: "noreply@app.test",
			ResetTokenTTL:  30 * time.Minute,
		},
		Logger:               logging.NewFakeLogger(),
		Now:                  now,
		UnitOfWork:           unitOfWork,
		UserRepository:       unitOfWork.Context.UserRepository,
		ResetTokenRepository: unitOfWork.Context.ResetTokenRepository,
		EmailSender:          email.NewEmailSenderWithClient(nopSESClient{}, "noreply@app.test"),
		Notifier:             s.notifier,
		UserIDGenerator:      user.NewFakeIDGenerator(),
		SessionTokenIssuer:   user.NewFakeSessionTokenIssuer(24*time.Hour, now),
		SessionRevoker:       s.revoker,
		PasswordHasher:       user.NewFakePasswordHasher(),
		PasswordResetter:     user.NewFakePasswordResetter("reset"),
	}
	s.router = NewRouter(services.InitServices(d), []string{"https://app.test"}, 5*time.Second, true)
}

func TestAccountsAPI(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) do(method string, path string, body string, token string) *httptest.ResponseRecorder {
	s.T().Helper()
	r := httptest.NewRequest(method, "/api/users"+path, strings.NewReader(body))
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rw := httptest.NewRecorder()
	s.router.ServeHTTP(rw, r)
	return rw
}

func (s *testSuite) register() string {
	s.T().Helper()
	rw := s.do(http.MethodPost, "/register", `{"name": "Alice", "email": "alice@test.test", "password": "secret1"}`, "")
	s.Require().Equal(http.StatusCreated, rw.Code)
	result := struct {
		Token string `json:"token"`
	}{}
	s.Require().NoError(json.Unmarshal(rw.Body.Bytes(), &result))
	return result.Token
}

func (s *testSuite) login(password string) *httptest.ResponseRecorder {
	s.T().Helper()
	return s.do(http.MethodPost, "/login", `{"email": "alice@test.test", "password": "`+password+`"}`, "")
}

func (s *testSuite) TestRegisterTwiceFails() {
	s.register()

	rw := s.do(http.MethodPost, "/register", `{"name": "Bob", "email": "alice@test.test", "password": "secret2"}`, "")

	s.Equal(http.StatusUnprocessableEntity, rw.Code)
}

func (s *testSuite) TestProfileRequiresSession() {
	token := s.register()

	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/me", "", "").Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/me", "", token).Code)

	rw := s.do(http.MethodPatch, "/me", `{"bio": "hello"}`, token)
	s.Equal(http.StatusOK, rw.Code)
	s.Contains(rw.Body.String(), `"bio":"hello"`)

	s.Equal(http.StatusOK, s.do(http.MethodPost, "/logout", "", token).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/me", "", token).Code)
	s.Equal("false", s.do(http.MethodGet, "/login-status", "", token).Body.String())
}

func (s *testSuite) TestPasswordResetFlow() {
	s.register()

	rw := s.do(http.MethodPost, "/forgot-password", `{"email": "alice@test.test"}`, "")
	s.Require().Equal(http.StatusOK, rw.Code)
	resetToken := rw.Header().Get("x-test-password-reset-token")
	s.Require().NotEmpty(resetToken)
	s.Require().Len(s.notifier.Sent, 1)
	s.Contains(s.notifier.Sent[0].HTMLBody, "https://app.test/resetpassword/"+resetToken)

	rw = s.do(http.MethodPost, "/reset-password/"+resetToken, `{"password": "secret2"}`, "")
	s.Require().Equal(http.StatusOK, rw.Code)

	s.Equal(http.StatusUnauthorized, s.login("secret1").Code)
	s.Equal(http.StatusOK, s.login("secret2").Code)

	rw = s.do(http.MethodPost, "/reset-password/"+resetToken, `{"password": "secret3"}`, "")
	s.Equal(http.StatusNotFound, rw.Code)
}

func (s *testSuite) TestExpiredResetToken() {
	s.register()
	rw := s.do(http.MethodPost, "/forgot-password", `{"email": "alice@test.test"}`, "")
	s.Require().Equal(http.StatusOK, rw.Code)
	resetToken := rw.Header().Get("x-test-password-reset-token")

	s.now = s.now.Add(30 * time.Minute)

	rw = s.do(http.MethodPost, "/reset-password/"+resetToken, `{"password": "secret2"}`, "")
	s.Equal(http.StatusNotFound, rw.Code)
	s.Equal(http.StatusOK, s.login("secret1").Code)
}

func (s *testSuite) TestForgotPasswordForUnknownEmail() {
	rw := s.do(http.MethodPost, "/forgot-password", `{"email": "nobody@test.test"}`, "")

	s.Equal(http.StatusNotFound, rw.Code)
	s.Empty(s.notifier.Sent)
}
