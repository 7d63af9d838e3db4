package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoflow/photoflow-go/internal/crypto"
	"github.com/photoflow/photoflow-go/internal/model"
)

const testSecret = "test-secret"

func protectedProbe(t *testing.T) http.Handler {
	t.Helper()
	return SessionAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := SessionUserFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(user.Email))
	}))
}

func validToken(t *testing.T, email string, ttl time.Duration) string {
	t.Helper()
	token, err := crypto.NewSessionToken(model.User{Email: email, Name: "Jane"}, testSecret, ttl)
	require.NoError(t, err)
	return token
}

func TestSessionAuth_BearerToken(t *testing.T) {
	h := protectedProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t, "a@x.com", time.Hour))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", rec.Body.String())
}

func TestSessionAuth_Cookie(t *testing.T) {
	h := protectedProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: validToken(t, "a@x.com", time.Hour)})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionAuth_FailsClosed(t *testing.T) {
	h := protectedProbe(t)

	tests := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"no credentials", func(r *http.Request) {}},
		{"malformed header", func(r *http.Request) {
			r.Header.Set("Authorization", "Token abc")
		}},
		{"garbage token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer garbage")
		}},
		{"expired token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+validToken(t, "a@x.com", -time.Minute))
		}},
		{"expired cookie token", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookie, Value: validToken(t, "a@x.com", -time.Minute)})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := SessionAuth(testSecret)(RequireAdmin("admin@x.com")(inner))

	t.Run("admin passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+validToken(t, "admin@x.com", time.Hour))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+validToken(t, "a@x.com", time.Hour))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no configured admin forbids everyone", func(t *testing.T) {
		none := SessionAuth(testSecret)(RequireAdmin("")(inner))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+validToken(t, "a@x.com", time.Hour))
		rec := httptest.NewRecorder()
		none.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
