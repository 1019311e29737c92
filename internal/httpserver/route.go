package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/metrics"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/middleware/ratelimit"
	"github.com/Skotchmaster/storefront/internal/service"
)

type Deps struct {
	Auth    *service.AuthService
	Users   *service.UserService
	Catalog *service.CatalogService
	Cart    *service.CartService

	CookieName   string
	CookieSecure bool

	// AuthLimiter throttles register and login per client IP. Optional.
	AuthLimiter *ratelimit.Limiter
	// Ready reports whether backing stores are reachable. Optional.
	Ready func(ctx context.Context) error
	// ClientIP resolves the caller address for throttling. Defaults to the
	// socket peer.
	ClientIP echo.IPExtractor
}

// Register mounts the health, metrics and /api routes on e.
// Gates are attached per route so unknown paths under /api still 404.
func Register(e *echo.Echo, d Deps) {
	e.Validator = NewValidator()
	e.IPExtractor = d.ClientIP
	if e.IPExtractor == nil {
		e.IPExtractor = echo.ExtractIPDirect()
	}

	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	gate := authmw.NewMiddleware(d.Auth, d.CookieName, d.CookieSecure)
	admin := gate.RequireAdmin
	authed := gate.RequireAuth

	var throttle []echo.MiddlewareFunc
	if d.AuthLimiter != nil {
		throttle = append(throttle, d.AuthLimiter.Middleware())
	}

	authH := &AuthHTTP{Svc: d.Auth, CookieName: gate.CookieName, CookieSecure: d.CookieSecure}
	catalogH := &CatalogHTTP{Svc: d.Catalog}
	cartH := &CartHTTP{Svc: d.Cart}
	usersH := &UsersHTTP{Svc: d.Users}

	api := e.Group("/api")

	api.POST("/register", authH.Register, throttle...)
	api.POST("/login", authH.Login, throttle...)
	api.POST("/logout", authH.Logout)
	api.GET("/user", authH.CurrentUser, authed)

	api.GET("/products", catalogH.GetProducts)
	api.GET("/products/:id", catalogH.GetProduct)
	api.POST("/products", catalogH.CreateProduct, admin)
	api.PATCH("/products/:id", catalogH.PatchProduct, admin)
	api.DELETE("/products/:id", catalogH.DeleteProduct, admin)

	api.GET("/categories", catalogH.GetCategories)
	api.GET("/categories/:id", catalogH.GetCategory)
	api.POST("/categories", catalogH.CreateCategory, admin)
	api.PATCH("/categories/:id", catalogH.PatchCategory, admin)
	api.DELETE("/categories/:id", catalogH.DeleteCategory, admin)

	api.GET("/cart", cartH.GetCart, authed)
	api.POST("/cart", cartH.AddToCart, authed)
	api.DELETE("/cart/:id", cartH.RemoveFromCart, authed)

	api.GET("/users", usersH.GetUsers, admin)
	api.PATCH("/users/:id", usersH.UpdateProfile, gate.Require(authmw.SelfOrAdmin("id")))
	api.DELETE("/users/:id", usersH.DeleteUser, admin)
	api.PATCH("/users/:id/role", usersH.UpdateRole, admin)
}
