package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

type contextKey string

const adminKey contextKey = "admin"

// AdminSubject is the token subject issued to the shared admin login.
const AdminSubject = "admin"

// WithAdmin marks the context as carrying an authenticated admin.
func WithAdmin(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, adminKey, subject)
}

// AdminFromContext returns the admin subject set by RequireAdmin or DevAdmin.
func AdminFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(adminKey).(string)
	return v, ok
}

// RequireAdmin rejects requests without a valid admin session cookie.
func RequireAdmin(sessionSecret []byte) func(http.Handler) http.Handler {
	return requireAdmin(sessionSecret, time.Now)
}

func requireAdmin(sessionSecret []byte, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName())
			if err != nil {
				writeUnauthorized(w, "unauthorized")
				return
			}

			subject, err := VerifySessionToken(cookie.Value, sessionSecret, now())
			if err != nil {
				code := "invalid_session"
				if errors.Is(err, ErrTokenExpired) {
					code = "session_expired"
				}
				writeUnauthorized(w, code)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), subject)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}

// DevAdmin marks every request as admin. Used when AUTH_REQUIRED is not "true".
func DevAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), "dev-admin")))
	})
}
