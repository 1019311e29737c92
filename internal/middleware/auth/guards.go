// Package auth provides the session gates placed in front of handlers.
//
// A gate chain is one Require middleware: it resolves the caller's
// principal from the session cookie (or a bearer token), then runs each
// Guard in order. Gates never touch the storage layer.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/session"
)

const (
	CtxPrincipal = "principal"

	DefaultCookieName = "session"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (session.Principal, error)
}

// Guard decides whether an authenticated principal may proceed. It returns
// an *echo.HTTPError to reject.
type Guard func(c echo.Context, p session.Principal) error

type Middleware struct {
	Auth       Authenticator
	CookieName string
	// Secure marks the session cookie Secure; cleared cookies must match.
	Secure bool
}

func NewMiddleware(a Authenticator, cookieName string, secure bool) *Middleware {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Middleware{Auth: a, CookieName: cookieName, Secure: secure}
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Require()(next)
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.Require(AdminOnly)(next)
}

// Require authenticates the request and applies guards in order.
func (m *Middleware) Require(guards ...Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "auth")

			p, err := m.Auth.Authenticate(ctx, TokenFrom(c, m.CookieName))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					m.clearCookie(c)
					metrics.RecordGateDenial(http.StatusUnauthorized)
					l.Warn("gate_denied", "status", 401, "reason", err.Error())
					return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
				}
				l.Error("gate_error", "status", 500, "reason", "session store unavailable", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
			}

			for _, g := range guards {
				if err := g(c, p); err != nil {
					var he *echo.HTTPError
					if errors.As(err, &he) {
						metrics.RecordGateDenial(he.Code)
					}
					l.Warn("gate_denied", "user_id", p.UserID, "role", p.Role, "error", err)
					return err
				}
			}

			c.Set(CtxPrincipal, p)
			return next(c)
		}
	}
}

func AdminOnly(_ echo.Context, p session.Principal) error {
	if !p.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	}
	return nil
}

// SelfOrAdmin passes when the path parameter names the caller, or the
// caller is an admin.
func SelfOrAdmin(param string) Guard {
	return func(c echo.Context, p session.Principal) error {
		if p.IsAdmin() || c.Param(param) == p.UserID {
			return nil
		}
		return echo.NewHTTPError(http.StatusForbidden, "you can only change your own account")
	}
}

// PrincipalFrom returns the principal stored by Require.
func PrincipalFrom(c echo.Context) (session.Principal, bool) {
	p, ok := c.Get(CtxPrincipal).(session.Principal)
	return p, ok && p.UserID != ""
}

// TokenFrom reads the session token from the cookie, falling back to an
// Authorization: Bearer header.
func TokenFrom(c echo.Context, cookieName string) string {
	if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(tok)
	}
	return ""
}

func (m *Middleware) clearCookie(c echo.Context) {
	if _, err := c.Cookie(m.CookieName); err == nil {
		c.SetCookie(DeleteCookie(m.CookieName, "/", m.Secure))
	}
}
