package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

const testSecret = "test-session-secret"

func TestSessionToken_RoundTrip(t *testing.T) {
	p := model.Principal{ID: "admin-id", Name: "Admin", Role: model.RoleAdmin}

	token, err := GenerateSessionToken(testSecret, p, time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, p, claims.Principal())
	assert.True(t, claims.Principal().IsAdmin())
}

func TestSessionToken_Expired(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, model.Principal{ID: "u", Role: model.RoleUser}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(testSecret, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, model.Principal{ID: "u", Role: model.RoleUser}, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_RejectsNoneAlgorithm(t *testing.T) {
	claims := SessionClaims{
		Role:             model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "attacker"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseSessionToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_EmptySecret(t *testing.T) {
	_, err := GenerateSessionToken("", model.Principal{ID: "u"}, time.Hour)
	assert.Error(t, err)

	_, err = ParseSessionToken("", "anything")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_MissingSubject(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, model.Principal{Role: model.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionToken_Malformed(t *testing.T) {
	_, err := ParseSessionToken(testSecret, "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
