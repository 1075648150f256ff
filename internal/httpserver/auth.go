package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/refurb_shop/internal/service"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
	jwthelp "github.com/Skotchmaster/refurb_shop/pkg/jwt"
	"github.com/Skotchmaster/refurb_shop/pkg/logging"
	middleware "github.com/Skotchmaster/refurb_shop/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func setSessionCookies(c echo.Context, res *transport.LoginResult) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
}

func clearSessionCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
}

// refreshToken takes the token from the body, then from the refresh cookie.
func refreshToken(c echo.Context) string {
	var req transport.RefreshRequest
	if err := c.Bind(&req); err == nil && req.Refresh != "" {
		return req.Refresh
	}
	if ck, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		return ck.Value
	}
	return ""
}

func loginResponse(res *transport.LoginResult) transport.LoginResponse {
	return transport.LoginResponse{Access: res.AccessToken, Refresh: res.RefreshToken, User: res.User}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register", "invalid body", err)
	}
	u, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register", err)
	}

	l.Info("register_success", "user_id", u.ID)
	return c.JSON(http.StatusCreated, u)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login", "invalid body", err)
	}
	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login", err)
	}

	setSessionCookies(c, res)
	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, loginResponse(res))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	res, err := h.Svc.Refresh(ctx, refreshToken(c))
	if err != nil {
		clearSessionCookies(c)
		return fail(l, "refresh", err)
	}

	setSessionCookies(c, res)
	return c.JSON(http.StatusOK, loginResponse(res))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	err := h.Svc.Logout(ctx, refreshToken(c))
	clearSessionCookies(c)
	if err != nil {
		l.Error("logout_error", "status", http.StatusInternalServerError, "reason", "cannot revoke refresh token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	l.Info("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	userID, ok := middleware.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	u, err := h.Svc.Me(ctx, userID)
	if err != nil {
		return fail(l, "me", err)
	}
	return c.JSON(http.StatusOK, u)
}
