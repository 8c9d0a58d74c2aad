// Package security signs and verifies session tokens.
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

// Session token errors.
var (
	// ErrInvalidToken indicates a token is malformed or fails validation.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken indicates a token has expired.
	ErrExpiredToken = errors.New("session token expired")
)

// SessionClaims identifies the signed-in principal.
type SessionClaims struct {
	Name string     `json:"name"`
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the domain principal.
func (c *SessionClaims) Principal() model.Principal {
	return model.Principal{ID: c.Subject, Name: c.Name, Role: c.Role}
}

// GenerateSessionToken signs an HS256 session token for p valid for expiry.
func GenerateSessionToken(secret string, p model.Principal, expiry time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("session secret is empty")
	}
	now := time.Now().UTC()
	claims := SessionClaims{
		Name: p.Name,
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates a session token and returns its claims.
func ParseSessionToken(secret string, tokenString string) (*SessionClaims, error) {
	if secret == "" {
		return nil, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
