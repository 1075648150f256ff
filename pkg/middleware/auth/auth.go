package middleware

import (
	"net/http"
	"strings"

	jwthelp "github.com/Skotchmaster/refurb_shop/pkg/jwt"
	"github.com/Skotchmaster/refurb_shop/pkg/tokens"
	"github.com/labstack/echo/v4"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	CtxUserID = "user_id"
	CtxRole   = "role"
)

type Authenticator struct {
	Secret []byte
}

func NewAuthenticator(secret []byte) *Authenticator {
	return &Authenticator{Secret: secret}
}

type validatorFunc func(claims *tokens.AccessClaims) error

// tokenFromRequest prefers the Authorization header over the access cookie.
func tokenFromRequest(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
	}
	if ck, err := c.Cookie(jwthelp.AccessCookie); err == nil {
		return ck.Value
	}
	return ""
}

// Optional attaches the caller identity when a valid token is present and
// otherwise lets the request through anonymously.
func (a *Authenticator) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := tokenFromRequest(c)
		if raw != "" {
			if claims, err := tokens.AccessClaimsFromToken(raw, a.Secret); err == nil {
				setUserContext(c, claims)
			}
		}
		return next(c)
	}
}

func (a *Authenticator) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return a.require(next, nil)
}

func (a *Authenticator) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return a.require(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (a *Authenticator) require(next echo.HandlerFunc, validator validatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := tokenFromRequest(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, a.Secret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		if _, err := claims.UserID(); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		if validator != nil {
			if vErr := validator(claims); vErr != nil {
				return vErr
			}
		}

		setUserContext(c, claims)
		return next(c)
	}
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	id, err := claims.UserID()
	if err != nil {
		return
	}
	c.Set(CtxUserID, id)
	c.Set(CtxRole, claims.Role)
}

// UserID returns the authenticated caller, if any.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(CtxUserID).(uint)
	return id, ok && id != 0
}

func IsAdmin(c echo.Context) bool {
	role, _ := c.Get(CtxRole).(string)
	return role == RoleAdmin
}
