package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meat_shop/internal/logging"
	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/service"
	"github.com/Skotchmaster/meat_shop/internal/tokens"
)

type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*service.LoginResult, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret    []byte
	Refresher    Refresher
	CookieSecure bool
}

func NewAutoRefreshMiddleware(secret []byte, refresher Refresher, secure bool) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{JWTSecret: secret, Refresher: refresher, CookieSecure: secure}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "auth")

		if accessCookie, err := c.Cookie(tokens.AccessCookie); err == nil && accessCookie.Value != "" {
			claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
			if err == nil {
				if vErr := validate(validator, claims); vErr != nil {
					return vErr
				}
				setUserContext(c, claims)
				return next(c)
			}
			if !errors.Is(err, jwt.ErrTokenExpired) {
				m.clearAuthCookies(c)
				l.Warn("auth_failed", "status", 401, "reason", "invalid access token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
		}

		// The access cookie expires together with its token, so a missing
		// cookie is handled like an expired one.
		refreshCookie, err := c.Cookie(tokens.RefreshCookie)
		if err != nil || refreshCookie.Value == "" {
			m.clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		res, err := m.Refresher.Refresh(c.Request().Context(), refreshCookie.Value)
		if err != nil {
			m.clearAuthCookies(c)
			l.Warn("auth_refresh_failed", "status", 401, "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}

		c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp, m.CookieSecure))
		c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp, m.CookieSecure))

		claims, err := tokens.AccessClaimsFromToken(res.AccessToken, m.JWTSecret)
		if err != nil {
			m.clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
		}
		if vErr := validate(validator, claims); vErr != nil {
			return vErr
		}

		l.Info("auth_tokens_rotated", "user_id", claims.Subject)
		setUserContext(c, claims)
		return next(c)
	}
}

func validate(v ValidatorFunc, claims *tokens.AccessClaims) error {
	if v == nil {
		return nil
	}
	return v(claims)
}

func (m *AutoRefreshMiddleware) clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", m.CookieSecure))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/", m.CookieSecure))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
	c.Set("username", claims.Username)
}
