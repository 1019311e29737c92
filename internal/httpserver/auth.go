package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieName   string
	CookieSecure bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bind(c, l, "register_error", &req); err != nil {
		return err
	}

	res, err := h.Svc.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(l, "register_error", err)
	}

	c.SetCookie(authmw.CreateCookie(h.cookieName(), res.Token, "/", res.ExpiresAt, h.CookieSecure))
	return c.JSON(http.StatusCreated, res.User)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, l, "login_error", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	c.SetCookie(authmw.CreateCookie(h.cookieName(), res.Token, "/", res.ExpiresAt, h.CookieSecure))
	return c.JSON(http.StatusOK, res.User)
}

// Logout always succeeds for the client; the cookie is cleared either way.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if err := h.Svc.Logout(ctx, authmw.TokenFrom(c, h.cookieName())); err != nil {
		c.SetCookie(authmw.DeleteCookie(h.cookieName(), "/", h.CookieSecure))
		l.Error("logout_failed", "status", 500, "reason", "cannot destroy session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(authmw.DeleteCookie(h.cookieName(), "/", h.CookieSecure))
	return c.NoContent(http.StatusOK)
}

func (h *AuthHTTP) CurrentUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.current_user")

	p, ok := authmw.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	user, err := h.Svc.CurrentUser(ctx, p)
	if err != nil {
		return fail(l, "current_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) cookieName() string {
	if h.CookieName == "" {
		return authmw.DefaultCookieName
	}
	return h.CookieName
}
