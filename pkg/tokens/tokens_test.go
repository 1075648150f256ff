package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("access-secret")
	refreshSecret = []byte("refresh-secret")
)

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := NewAccessToken(accessSecret, 42, "admin", time.Now().Add(time.Minute))
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, accessSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestAccessToken_Rejections(t *testing.T) {
	expired, err := NewAccessToken(accessSecret, 1, "user", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(expired, accessSecret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	valid, err := NewAccessToken(accessSecret, 1, "user", time.Now().Add(time.Minute))
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(valid, []byte("other"))
	require.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodHS512, AccessClaims{Role: "admin"})
	signed, err := none.SignedString(accessSecret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(signed, accessSecret)
	require.Error(t, err)
}

func TestRefreshToken_CarriesJTI(t *testing.T) {
	tok, jti, err := NewRefreshToken(refreshSecret, 7, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := RefreshClaimsFromToken(tok, refreshSecret)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	_, err = RefreshClaimsFromToken(tok, accessSecret)
	require.Error(t, err)
}

func TestUserID_BadSubject(t *testing.T) {
	c := AccessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	require.Error(t, err)

	c.Subject = "0"
	_, err = c.UserID()
	require.Error(t, err)
}
