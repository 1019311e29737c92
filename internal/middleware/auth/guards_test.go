package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/session"
)

type fakeAuth struct {
	byToken map[string]session.Principal
	err     error
	calls   int
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (session.Principal, error) {
	f.calls++
	if f.err != nil {
		return session.Principal{}, f.err
	}
	p, ok := f.byToken[token]
	if !ok {
		return session.Principal{}, domain.Unauthorized("invalid session")
	}
	return p, nil
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{byToken: map[string]session.Principal{
		"user-token":  {UserID: "u-1", Role: domain.RoleUser},
		"admin-token": {UserID: "a-1", Role: domain.RoleAdmin},
	}}
}

func serve(t *testing.T, mw echo.MiddlewareFunc, path, target string, setup func(*http.Request)) (*httptest.ResponseRecorder, *bool) {
	t.Helper()

	reached := false
	e := echo.New()
	e.GET(path, func(c echo.Context) error {
		reached = true
		p, ok := PrincipalFrom(c)
		require.True(t, ok)
		return c.String(http.StatusOK, p.UserID)
	}, mw)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, &reached
}

func withCookie(v string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: v}) }
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
	}{
		{name: "no session", setup: nil, status: http.StatusUnauthorized},
		{name: "unknown cookie", setup: withCookie("stale"), status: http.StatusUnauthorized},
		{name: "user cookie", setup: withCookie("user-token"), status: http.StatusOK},
		{name: "bearer header", setup: func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer admin-token") }, status: http.StatusOK},
		{name: "basic header ignored", setup: func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Basic admin-token") }, status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewMiddleware(newFakeAuth(), "", true)
			rec, reached := serve(t, m.RequireAuth, "/cart", "/cart", tt.setup)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status == http.StatusOK, *reached)
		})
	}
}

func TestRequireAuth_ClearsStaleCookie(t *testing.T) {
	t.Parallel()

	m := NewMiddleware(newFakeAuth(), "", true)
	rec, _ := serve(t, m.RequireAuth, "/cart", "/cart", withCookie("stale"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cookie string
		status int
	}{
		{name: "anonymous", cookie: "", status: http.StatusUnauthorized},
		{name: "user", cookie: "user-token", status: http.StatusForbidden},
		{name: "admin", cookie: "admin-token", status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewMiddleware(newFakeAuth(), "", true)
			var setup func(*http.Request)
			if tt.cookie != "" {
				setup = withCookie(tt.cookie)
			}
			rec, reached := serve(t, m.RequireAdmin, "/admin", "/admin", setup)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.status == http.StatusOK, *reached)
		})
	}
}

func TestSelfOrAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cookie string
		target string
		status int
	}{
		{name: "self", cookie: "user-token", target: "/users/u-1", status: http.StatusOK},
		{name: "someone else", cookie: "user-token", target: "/users/u-2", status: http.StatusForbidden},
		{name: "admin on anyone", cookie: "admin-token", target: "/users/u-2", status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewMiddleware(newFakeAuth(), "", true)
			rec, _ := serve(t, m.Require(SelfOrAdmin("id")), "/users/:id", tt.target, withCookie(tt.cookie))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequire_StoreFailureIs500(t *testing.T) {
	t.Parallel()

	fa := newFakeAuth()
	fa.err = errors.New("redis: connection refused")
	m := NewMiddleware(fa, "", true)

	rec, reached := serve(t, m.RequireAuth, "/cart", "/cart", withCookie("user-token"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, *reached)
	assert.Equal(t, 1, fa.calls)
}

func TestCookies(t *testing.T) {
	t.Parallel()

	ck := CreateCookie("session", "v", "/", time.Now().Add(time.Hour), true)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

	del := DeleteCookie("session", "/", false)
	assert.Equal(t, -1, del.MaxAge)
	assert.Empty(t, del.Value)
	assert.False(t, del.Secure)
}
