package crypto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoflow/photoflow-go/internal/model"
)

const testSecret = "test-secret"

func testUser() model.User {
	return model.User{
		Email:           "jane@example.com",
		Password:        "$argon2id$should-never-appear",
		Name:            "Jane",
		ProfileComplete: true,
		PortfolioSlug:   "jane-portfolio",
	}
}

func TestSessionToken_RoundTrip(t *testing.T) {
	token, err := NewSessionToken(testUser(), testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", claims.User.Email)
	assert.Equal(t, "Jane", claims.User.Name)
	assert.Equal(t, "jane-portfolio", claims.User.PortfolioSlug)
	assert.True(t, claims.User.ProfileComplete)
}

func TestSessionToken_StripsPassword(t *testing.T) {
	token, err := NewSessionToken(testUser(), testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, testSecret)
	require.NoError(t, err)
	assert.Empty(t, claims.User.Password)

	// The hash must not even be present in the encoded token.
	assert.NotContains(t, token, "argon2id")
}

func TestSessionToken_Expired(t *testing.T) {
	token, err := NewSessionToken(testUser(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token, err := NewSessionToken(testUser(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "another-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_Tampered(t *testing.T) {
	token, err := NewSessionToken(testUser(), testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token+"x", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseSessionToken("not-a-token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_EmptyEmailRejected(t *testing.T) {
	token, err := NewSessionToken(model.User{}, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
