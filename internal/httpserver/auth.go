package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meat_shop/internal/logging"
	"github.com/Skotchmaster/meat_shop/internal/service"
	"github.com/Skotchmaster/meat_shop/internal/tokens"
	"github.com/Skotchmaster/meat_shop/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.Credentials
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid body")
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		code, msg := statusOf(err, "User already exists")
		l.Warn("register_error", "status", code, "reason", msg, "error", err)
		return echo.NewHTTPError(code, msg)
	}

	h.setCookies(c, res)
	l.Info("register_successful", "username", res.Username)
	return c.JSON(http.StatusOK, transport.RoleResponse{Role: res.Role})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.Credentials
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid body")
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		code, msg := statusOf(err, "")
		l.Warn("login_failed", "status", code, "username", req.Username, "error", err)
		return echo.NewHTTPError(code, msg)
	}

	h.setCookies(c, res)
	l.Info("login_successful", "username", res.Username, "role", res.Role)
	return c.JSON(http.StatusOK, transport.RoleResponse{Role: res.Role})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if refreshCookie, err := c.Cookie(tokens.RefreshCookie); err == nil && refreshCookie.Value != "" {
		if err := h.Svc.LogOut(ctx, refreshCookie.Value); err != nil {
			h.clearCookies(c)
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refreshToken", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed")
		}
	}

	h.clearCookies(c)
	l.Info("successful_logout")
	return c.JSON(http.StatusOK, transport.MessageResponse{Success: true, Message: "Logged out"})
}

// Me echoes the identity the auth middleware put on the context.
func (h *AuthHTTP) Me(c echo.Context) error {
	username, _ := c.Get("username").(string)
	role, _ := c.Get("role").(string)
	return c.JSON(http.StatusOK, echo.Map{"username": username, "role": role})
}

func (h *AuthHTTP) setCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp, h.CookieSecure))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp, h.CookieSecure))
}

func (h *AuthHTTP) clearCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/", h.CookieSecure))
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", h.CookieSecure))
}
