package auth

import (
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services/auth"
	"context"
	"net/http"
	"strings"
	"time"
)

const (
	AUTH_TOKEN_PREFIX   = "Bearer "
	AUTH_TOKEN_MAX_LEN  = 1024
	SESSION_COOKIE_NAME = "session_token"
)

// ParseToken reads the session token from the Authorization header and
// falls back to the session cookie.
func ParseToken(r *http.Request) (token user.SessionToken, ok bool) {
	if header := r.Header.Get("authorization"); header != "" {
		parts := strings.SplitN(header, AUTH_TOKEN_PREFIX, 2)
		if len(parts) != 2 || parts[1] == "" || len(parts[1]) > AUTH_TOKEN_MAX_LEN {
			return token, false
		}
		return user.SessionToken(parts[1]), true
	}
	cookie, err := r.Cookie(SESSION_COOKIE_NAME)
	if err != nil || cookie.Value == "" || len(cookie.Value) > AUTH_TOKEN_MAX_LEN {
		return token, false
	}
	return user.SessionToken(cookie.Value), true
}

func SetAuthTokenToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := ParseToken(r)
		if ok {
			ctx := context.WithValue(r.Context(), auth.CONTEXT_AUTH_TOKEN_KEY, token)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func SetSessionCookie(rw http.ResponseWriter, session user.Session) {
	http.SetCookie(rw, &http.Cookie{
		Name:     SESSION_COOKIE_NAME,
		Value:    string(session.Token),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
	})
}

func ClearSessionCookie(rw http.ResponseWriter) {
	http.SetCookie(rw, &http.Cookie{
		Name:     SESSION_COOKIE_NAME,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
	})
}
