package app

import (
	"accounts/internal/app/deps"
	"accounts/internal/app/services"
	"accounts/internal/http/handlers/auth"
	loginwithemail "accounts/internal/http/handlers/auth/log_in_with_email"
	logout "accounts/internal/http/handlers/auth/log_out"
	loginstatus "accounts/internal/http/handlers/auth/login_status"
	resetpassword "accounts/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "accounts/internal/http/handlers/auth/send_password_reset_token"
	signupwithemail "accounts/internal/http/handlers/auth/sign_up_with_email"
	changepassword "accounts/internal/http/handlers/user/change_password"
	me "accounts/internal/http/handlers/user/me"
	updateuser "accounts/internal/http/handlers/user/update_user"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts the account API under /api/users.
func NewRouter(s *services.Services, allowedOrigins []string, requestTimeout time.Duration, isTestMode bool) http.Handler {
	usersRouter := chi.NewRouter()
	usersRouter.Method(http.MethodPost, "/register", signupwithemail.New(s.SignUpWithEmail))
	usersRouter.Method(http.MethodPost, "/login", loginwithemail.New(s.LogInWithEmail))
	usersRouter.Method(http.MethodPost, "/logout", logout.New(s.LogOut))
	usersRouter.Method(http.MethodGet, "/login-status", loginstatus.New(s.LoginStatus))
	usersRouter.Method(
		http.MethodPost,
		"/forgot-password",
		sendpasswordresettoken.New(s.SendPasswordResetToken, isTestMode),
	)
	usersRouter.Method(
		http.MethodPost,
		fmt.Sprintf("/reset-password/{%s}", resetpassword.TOKEN_URL_PARAM),
		resetpassword.New(s.ResetPassword),
	)

	usersRouter.Group(func(r chi.Router) {
		r.Use(auth.SetAuthTokenToContext)
		r.Method(http.MethodGet, "/me", me.New(s.GetUser))
		r.Method(http.MethodPatch, "/me", updateuser.New(s.UpdateUser))
		r.Method(http.MethodPatch, "/password", changepassword.New(s.ChangePassword))
	})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{sendpasswordresettoken.TEST_TOKEN_HEADER},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/api/users", usersRouter)
	return router
}

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	router := NewRouter(s, deps.Config.AllowedOrigins, deps.Config.RequestTimeout, deps.Config.IsTestMode)

	return &http.Server{
		Handler:           router,
		Addr:              fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
