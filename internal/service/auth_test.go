package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/refurb_shop/internal/models"
	"github.com/Skotchmaster/refurb_shop/internal/service"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
	"github.com/Skotchmaster/refurb_shop/pkg/tokens"
)

func newAuth(t *testing.T) (*fixture, *service.AuthService) {
	t.Helper()
	f := newFixture(t)
	return f, &service.AuthService{
		Repo:          f.repo,
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	}
}

func TestAuth_RegisterValidation(t *testing.T) {
	_, svc := newAuth(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   transport.RegisterRequest
	}{
		{name: "missing fields", in: transport.RegisterRequest{Username: "ana"}},
		{name: "bad email", in: transport.RegisterRequest{Username: "ana", Email: "nope", Password: "longenough"}},
		{name: "short password", in: transport.RegisterRequest{Username: "ana", Email: "a@x.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			require.ErrorIs(t, err, service.ErrValidation)
		})
	}
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	f, svc := newAuth(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, transport.RegisterRequest{Username: "ana", Email: "Ana@X.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", u.Email)
	assert.False(t, u.IsStaff)

	var stored models.User
	require.NoError(t, f.db.First(&stored, u.ID).Error)
	assert.NotEqual(t, "password1", stored.PasswordHash)

	_, err = svc.Register(ctx, transport.RegisterRequest{Username: "ana", Email: "other@x.com", Password: "password1"})
	require.ErrorIs(t, err, service.ErrConflict)

	_, err = svc.Login(ctx, "ana", "wrong-password")
	require.ErrorIs(t, err, service.ErrUnauthorized)
	_, err = svc.Login(ctx, "ghost", "password1")
	require.ErrorIs(t, err, service.ErrUnauthorized)

	res, err := svc.Login(ctx, "ana", "password1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, []byte("access-secret"))
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)

	me, err := svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Username)

	_, err = svc.Me(ctx, 9999)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestAuth_RefreshRotatesAndLogoutRevokes(t *testing.T) {
	_, svc := newAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, transport.RegisterRequest{Username: "ana", Email: "a@x.com", Password: "password1"})
	require.NoError(t, err)
	first, err := svc.Login(ctx, "ana", "password1")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, service.ErrUnauthorized, "rotated token cannot be reused")

	_, err = svc.Refresh(ctx, "garbage")
	require.ErrorIs(t, err, service.ErrUnauthorized)
	_, err = svc.Refresh(ctx, "")
	require.ErrorIs(t, err, service.ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, second.RefreshToken))
	_, err = svc.Refresh(ctx, second.RefreshToken)
	require.ErrorIs(t, err, service.ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, ""))
}

func TestAuth_EnsureAdmin(t *testing.T) {
	f, svc := newAuth(t)
	ctx := context.Background()
	in := transport.RegisterRequest{Username: "admin", Email: "admin@x.com", Password: "adminpass"}

	require.NoError(t, svc.EnsureAdmin(ctx, in))
	require.NoError(t, svc.EnsureAdmin(ctx, in))

	var n int64
	require.NoError(t, f.db.Model(&models.User{}).Where("username = ?", "admin").Count(&n).Error)
	assert.EqualValues(t, 1, n)

	res, err := svc.Login(ctx, "admin", "adminpass")
	require.NoError(t, err)
	assert.True(t, res.User.IsStaff)
}
