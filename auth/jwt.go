package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionDuration is the validity window of an issued session token and of
// the cookie that carries it.
const SessionDuration = 7 * 24 * time.Hour

// SessionUser is the identity carried by a verified session token.
type SessionUser struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type sessionClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens. Tokens are not
// persisted server-side; a token is valid iff its signature verifies and it
// has not expired.
type TokenManager struct {
	secret   []byte
	duration time.Duration
}

// NewTokenManager creates a token manager signing with the given secret.
func NewTokenManager(secret string, duration time.Duration) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		duration: duration,
	}
}

// Issue generates a signed token for the user, expiring after the
// configured duration.
func (m *TokenManager) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token. Malformed tokens, bad signatures and
// expired tokens all fail; callers are not expected to tell these apart.
func (m *TokenManager) Verify(tokenStr string) (SessionUser, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&sessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return m.secret, nil
		},
	)
	if err != nil {
		return SessionUser{}, err
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return SessionUser{}, errors.New("invalid token claims")
	}

	return SessionUser{UserID: claims.UserID, Email: claims.Email}, nil
}
