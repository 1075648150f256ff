package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwthelp "github.com/Skotchmaster/refurb_shop/pkg/jwt"
	"github.com/Skotchmaster/refurb_shop/pkg/tokens"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func token(t *testing.T, id uint, role string) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(secret, id, role, time.Now().Add(time.Minute))
	require.NoError(t, err)
	return tok
}

type seen struct {
	id    uint
	ok    bool
	admin bool
}

func run(t *testing.T, mw echo.MiddlewareFunc, prep func(r *http.Request)) (seen, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if prep != nil {
		prep(req)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var s seen
	err := mw(func(c echo.Context) error {
		s.id, s.ok = UserID(c)
		s.admin = IsAdmin(c)
		return c.NoContent(http.StatusOK)
	})(c)
	return s, err
}

func statusOf(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

func TestOptional(t *testing.T) {
	a := NewAuthenticator(secret)

	s, err := run(t, a.Optional, nil)
	require.NoError(t, err)
	assert.False(t, s.ok)

	s, err = run(t, a.Optional, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	})
	require.NoError(t, err)
	assert.False(t, s.ok)

	s, err = run(t, a.Optional, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, 5, RoleUser))
	})
	require.NoError(t, err)
	assert.True(t, s.ok)
	assert.Equal(t, uint(5), s.id)
}

func TestRequireAuth(t *testing.T) {
	a := NewAuthenticator(secret)

	_, err := run(t, a.RequireAuth, nil)
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, err = run(t, a.RequireAuth, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	})
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	s, err := run(t, a.RequireAuth, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: jwthelp.AccessCookie, Value: token(t, 9, RoleUser)})
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), s.id)
	assert.False(t, s.admin)
}

func TestRequireAdmin(t *testing.T) {
	a := NewAuthenticator(secret)

	_, err := run(t, a.RequireAdmin, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, 3, RoleUser))
	})
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	s, err := run(t, a.RequireAdmin, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, 1, RoleAdmin))
	})
	require.NoError(t, err)
	assert.True(t, s.admin)
}
