package me

import (
	"accounts/internal/core/domain/user"
	service "accounts/internal/core/services/get_user"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	err error
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	if s.err != nil {
		return result, s.err
	}
	result.User = user.User{
		ID:           "user-1",
		Name:         "John",
		Email:        "john@test.test",
		PasswordHash: "hash",
		CreatedAt:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	return result, nil
}

func TestMeHandler(t *testing.T) {
	cases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success",
			expectedStatus: http.StatusOK,
			expectedBody: `{"user": {
				"id": "user-1",
				"name": "John",
				"email": "john@test.test",
				"created_at": "2020-01-01T00:00:00Z",
				"updated_at": "2020-01-02T00:00:00Z"
			}}`,
		},
		{
			name:           "not authenticated",
			err:            user.ErrUserDoesNotExist,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error": "invalid authentication token"}`,
		},
		{
			name:           "unexpected error",
			err:            fmt.Errorf("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error": "internal error"}`,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.name, func(t *testing.T) {
			rw := httptest.NewRecorder()

			New(&stubService{err: testcase.err}).ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/me", nil))

			assert.Equal(t, testcase.expectedStatus, rw.Code)
			assert.JSONEq(t, testcase.expectedBody, rw.Body.String())
		})
	}
}
