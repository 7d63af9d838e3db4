package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoflow/photoflow-go/internal/crypto"
	"github.com/photoflow/photoflow-go/internal/model"
	"github.com/photoflow/photoflow-go/internal/store"
)

const (
	testSecret = "test-secret"
	adminEmail = "admin@photoflow.com"
)

func newTestAuthService() (*AuthService, store.Store) {
	st := store.NewMemory()
	return NewAuthService(st, testSecret, time.Hour, adminEmail), st
}

func register(t *testing.T, svc *AuthService, email, password string) {
	t.Helper()
	require.NoError(t, svc.Register(context.Background(), email, password))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Register(ctx, "", "pw"), ErrEmailRequired)
	assert.ErrorIs(t, svc.Register(ctx, "a@x.com", ""), ErrPasswordRequired)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, st := newTestAuthService()
	ctx := context.Background()

	register(t, svc, "a@x.com", "pw1")
	assert.ErrorIs(t, svc.Register(ctx, "a@x.com", "pw2"), ErrEmailTaken)

	// The original credential still works; the second attempt changed nothing.
	_, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	u, err := st.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, u.ProfileComplete)
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, st := newTestAuthService()
	register(t, svc, "a@x.com", "pw1")

	u, err := st.FindUserByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", u.Password)
	assert.Contains(t, u.Password, "$argon2id$")
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()
	register(t, svc, "a@x.com", "pw1")

	t.Run("success issues verifiable session", func(t *testing.T) {
		resp, err := svc.Login(ctx, "a@x.com", "pw1")
		require.NoError(t, err)
		assert.Empty(t, resp.User.Password)

		claims, err := crypto.ParseSessionToken(resp.Token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", claims.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "a@x.com", "wrongpw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@x.com", "pw1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()
	register(t, svc, "a@x.com", "old-pw")

	err := svc.ChangePassword(ctx, "a@x.com", "wrong", "new-pw")
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, svc.ChangePassword(ctx, "a@x.com", "old-pw", "new-pw"))

	_, err = svc.Login(ctx, "a@x.com", "old-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "a@x.com", "new-pw")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, st := newTestAuthService()
	ctx := context.Background()
	register(t, svc, "a@x.com", "pw")
	register(t, svc, "b@x.com", "pw")

	t.Run("sets profileComplete and re-issues session", func(t *testing.T) {
		resp, err := svc.UpdateProfile(ctx, "a@x.com", model.ProfileUpdate{
			Name:          "Jane",
			PortfolioSlug: "jane-portfolio",
		})
		require.NoError(t, err)
		assert.True(t, resp.User.ProfileComplete)

		claims, err := crypto.ParseSessionToken(resp.Token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "Jane", claims.User.Name)
		assert.Equal(t, "jane-portfolio", claims.User.PortfolioSlug)
	})

	t.Run("slug held by another user is rejected", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, "b@x.com", model.ProfileUpdate{
			Name:          "Bob",
			PortfolioSlug: "jane-portfolio",
		})
		assert.ErrorIs(t, err, ErrSlugTaken)

		// Both records are unchanged by the failed claim.
		a, err := st.FindUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "jane-portfolio", a.PortfolioSlug)
		b, err := st.FindUserByEmail(ctx, "b@x.com")
		require.NoError(t, err)
		assert.Empty(t, b.PortfolioSlug)
		assert.False(t, b.ProfileComplete)
	})

	t.Run("re-claiming own slug is fine", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, "a@x.com", model.ProfileUpdate{
			Name:          "Jane Again",
			PortfolioSlug: "jane-portfolio",
		})
		assert.NoError(t, err)
	})

	t.Run("invalid slug", func(t *testing.T) {
		for _, slug := range []string{"Jane Portfolio", "jane_portfolio", "Jané", "UPPER"} {
			_, err := svc.UpdateProfile(ctx, "b@x.com", model.ProfileUpdate{PortfolioSlug: slug})
			assert.ErrorIs(t, err, ErrInvalidSlug, "slug %q", slug)
		}
	})

	t.Run("bio length cap", func(t *testing.T) {
		long := make([]byte, maxBioLength+1)
		for i := range long {
			long[i] = 'a'
		}
		_, err := svc.UpdateProfile(ctx, "b@x.com", model.ProfileUpdate{Bio: string(long)})
		assert.ErrorIs(t, err, ErrBioTooLong)
	})
}

func TestCurrentUser_RefetchesFreshRecord(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()
	register(t, svc, "a@x.com", "pw")

	_, err := svc.UpdateProfile(ctx, "a@x.com", model.ProfileUpdate{Name: "Jane"})
	require.NoError(t, err)

	u, err := svc.CurrentUser(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane", u.Name)
	assert.Empty(t, u.Password)
}

func TestListUsers_AdminOnly(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()
	register(t, svc, adminEmail, "pw")
	register(t, svc, "a@x.com", "pw")

	_, err := svc.ListUsers(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotAdmin)

	users, err := svc.ListUsers(ctx, adminEmail)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}
}

func TestIsAdmin_UnconfiguredMeansNobody(t *testing.T) {
	svc := NewAuthService(store.NewMemory(), testSecret, time.Hour, "")
	assert.False(t, svc.IsAdmin(""))
	assert.False(t, svc.IsAdmin("anyone@x.com"))
}
