package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/pagination"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type UsersHTTP struct {
	Svc *service.UserService
}

func (h *UsersHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.list")

	users, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "get_users_error", err)
	}
	return c.JSON(http.StatusOK, pagination.Window(users, c.QueryParam("page"), c.QueryParam("size")))
}

func (h *UsersHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update_profile")

	var req transport.UpdateProfileRequest
	if err := bind(c, l, "update_profile_error", &req); err != nil {
		return err
	}

	u, err := h.Svc.UpdateProfile(ctx, c.Param("id"), service.ProfileInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(l, "update_profile_error", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UsersHTTP) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update_role")

	var req transport.UpdateRoleRequest
	if err := bind(c, l, "update_role_error", &req); err != nil {
		return err
	}

	actor, _ := authmw.PrincipalFrom(c)
	u, err := h.Svc.UpdateRole(ctx, actor.UserID, c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return fail(l, "update_role_error", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UsersHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.delete")

	actor, _ := authmw.PrincipalFrom(c)
	if err := h.Svc.Delete(ctx, actor.UserID, c.Param("id")); err != nil {
		return fail(l, "delete_user_error", err)
	}
	return c.NoContent(http.StatusOK)
}
