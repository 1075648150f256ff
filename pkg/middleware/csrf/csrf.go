package csrf

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const (
	CookieName = "XSRF-TOKEN"
	HeaderName = "X-CSRF-Token"
)

// cookieAuthenticated reports whether the browser attached one of the session
// cookies and no explicit bearer token was sent.
func cookieAuthenticated(c echo.Context, sessionCookies []string) bool {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ") {
		return false
	}
	for _, name := range sessionCookies {
		if ck, err := c.Cookie(name); err == nil && ck.Value != "" {
			return true
		}
	}
	return false
}

// Middleware enforces a double-submit token on unsafe requests that ride on
// session cookies. Header-authenticated and anonymous requests pass through.
// Safe requests from cookie sessions receive the token cookie.
func Middleware(secure bool, sessionCookies ...string) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "header:" + HeaderName,
		CookieName:     CookieName,
		CookiePath:     "/",
		CookieSecure:   secure,
		CookieHTTPOnly: false,
		CookieSameSite: http.SameSiteLaxMode,
		CookieMaxAge:   24 * 60 * 60,
		Skipper: func(c echo.Context) bool {
			return !cookieAuthenticated(c, sessionCookies)
		},
	})
}
