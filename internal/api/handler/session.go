// internal/api/handler/session.go
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"pivon-bank/internal/auth"
	"pivon-bank/internal/util"
)

// DefaultTimeout bounds request handling time at the router level.
const DefaultTimeout = 60 * time.Second

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext returns the session claims established by RequireSession.
func SessionFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(sessionContextKey).(*auth.Claims)
	return claims, ok
}

// RequireSession validates the session cookie and injects the claims into the
// request context. Requests without a valid session are rejected with 401.
func RequireSession(tokens *auth.TokenManager, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				respondNotAuthenticated(w)
				return
			}
			claims, err := tokens.Parse(cookie.Value)
			if err != nil {
				logger.Warn("Rejected invalid session token", "path", r.URL.Path)
				respondNotAuthenticated(w)
				return
			}
			ctx := context.WithValue(r.Context(), sessionContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondNotAuthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + util.ErrNotAuthenticated.Error() + `"}`))
}

// setSessionCookie establishes the session on the client.
func setSessionCookie(w http.ResponseWriter, token string, expiry time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(expiry),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie removes the session cookie. Safe to call when no session exists.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
