package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/witthaya/shopapi/internal/middleware/auth"
	"github.com/witthaya/shopapi/internal/service"
	"github.com/witthaya/shopapi/internal/storage"
	"github.com/witthaya/shopapi/internal/transport"
	"github.com/witthaya/shopapi/pkg/logging"
)

type UserHTTP struct {
	Svc    *service.UserService
	Images *storage.ImageStore
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	users, err := h.Svc.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	p, _ := mwauth.PrincipalFrom(c)
	if !mwauth.Allow(p, mwauth.ActionViewUser, mwauth.Resource{OwnerID: id}) {
		return echo.NewHTTPError(http.StatusForbidden, "you can only view your own profile")
	}

	user, err := h.Svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	p, _ := mwauth.PrincipalFrom(c)
	if !mwauth.Allow(p, mwauth.ActionUpdateUser, mwauth.Resource{OwnerID: id}) {
		return echo.NewHTTPError(http.StatusForbidden, "you can only update your own profile")
	}

	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_user_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	newImage := ""
	if file, ferr := c.FormFile("image"); ferr == nil {
		newImage, err = h.Images.Save(file)
		if err != nil {
			l.Error("image_save_failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "could not store image")
		}
	}

	user, err := h.Svc.UpdateUser(ctx, id, req, newImage)
	if err != nil {
		h.Images.Remove(ctx, newImage)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	p, _ := mwauth.PrincipalFrom(c)
	if !mwauth.Allow(p, mwauth.ActionDeleteUser, mwauth.Resource{OwnerID: id}) {
		return echo.NewHTTPError(http.StatusForbidden, "you can only delete your own profile")
	}

	user, err := h.Svc.DeleteUser(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User deleted successfully",
		"user":    user,
	})
}
