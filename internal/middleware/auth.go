package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/photoflow/photoflow-go/internal/crypto"
	"github.com/photoflow/photoflow-go/internal/model"
)

type contextKey string

const sessionUserKey contextKey = "sessionUser"

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

// SessionAuth validates the session token from the session cookie or an
// Authorization Bearer header and stores the embedded user snapshot in the
// request context. Verification failures fail closed with 401.
func SessionAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := crypto.ParseSessionToken(token, secret)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), sessionUserKey, claims.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if header := r.Header.Get("Authorization"); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			return token
		}
	}
	return ""
}

// SessionUserFromContext extracts the authenticated user snapshot placed
// there by SessionAuth.
func SessionUserFromContext(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(sessionUserKey).(model.User)
	return u, ok
}

// RequireAdmin gates a route group to the configured admin account. It
// must run after SessionAuth.
func RequireAdmin(adminEmail string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := SessionUserFromContext(r.Context())
			if !ok || adminEmail == "" || user.Email != adminEmail {
				writeJSONError(w, http.StatusForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
