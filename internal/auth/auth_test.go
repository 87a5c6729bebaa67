package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-api/internal/model"
)

const secret = "test-secret"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}

func TestTokenExpiry(t *testing.T) {
	tok, err := MakeToken("u1", model.RoleDoctor, secret, 0)
	require.NoError(t, err)

	claims, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, model.RoleDoctor, claims.Role)
	assert.Equal(t, model.Caller{ID: "u1", Role: model.RoleDoctor}, claims.Caller())

	// default lifetime is seven days
	diff := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, DefaultTTL.Seconds(), diff.Seconds(), 60)
}

func TestExpiredToken(t *testing.T) {
	c := Claims{
		UserID: "u1",
		Role:   model.RolePatient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	assert.Error(t, err)
}

func TestAlgorithmConfusion(t *testing.T) {
	tok, err := MakeToken("uid", model.RolePatient, secret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, "wrong-secret")
	assert.Error(t, err, "wrong secret")

	_, err = ParseToken("not.a.token", secret)
	assert.Error(t, err, "garbage")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "uid", Role: model.RolePatient}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(none, secret)
	assert.Error(t, err, "alg none")
}

func TestTokenWithoutRoleRejected(t *testing.T) {
	c := Claims{
		UserID: "u1",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	assert.ErrorIs(t, err, ErrBadToken)
}
