package loginstatus

import (
	service "accounts/internal/core/services/login_status"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	isLoggedIn bool
	called     bool
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.called = true
	return service.Result{IsLoggedIn: s.isLoggedIn && input.Token == "valid"}, nil
}

func TestLoginStatusHandler(t *testing.T) {
	cases := []struct {
		name         string
		cookie       string
		isLoggedIn   bool
		expectedBody string
	}{
		{name: "no token", expectedBody: "false"},
		{name: "valid token", cookie: "valid", isLoggedIn: true, expectedBody: "true"},
		{name: "revoked or invalid token", cookie: "valid", isLoggedIn: false, expectedBody: "false"},
	}

	for _, testcase := range cases {
		t.Run(testcase.name, func(t *testing.T) {
			stub := &stubService{isLoggedIn: testcase.isLoggedIn}
			handler := New(stub)
			rw := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/login-status", nil)
			if testcase.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "session_token", Value: testcase.cookie})
			}

			handler.ServeHTTP(rw, r)

			assert.Equal(t, http.StatusOK, rw.Code)
			assert.Equal(t, testcase.expectedBody, rw.Body.String())
			assert.Equal(t, testcase.cookie != "", stub.called)
		})
	}
}
