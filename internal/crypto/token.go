package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/photoflow/photoflow-go/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired session")

const (
	tokenIssuer   = "photoflow"
	tokenAudience = "photoflow-api"
)

// SessionClaims carries a password-free snapshot of the user taken at issue
// time. The snapshot is not refreshed when the record changes; callers that
// need fresh fields re-read the user from storage.
type SessionClaims struct {
	jwt.RegisteredClaims
	User model.User `json:"user"`
}

// NewSessionToken signs a session token embedding the user's public fields.
// The password hash is stripped before embedding regardless of the input.
func NewSessionToken(user model.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		User: user.Sanitized(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates signature, issuer, audience, and expiry, and
// returns the embedded claims. Any failure collapses to ErrInvalidToken so
// callers fail closed without leaking verification detail.
func ParseSessionToken(tokenString, secret string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.User.Email == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
