package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/witthaya/shopapi/internal/service"
	"github.com/witthaya/shopapi/internal/storage"
	"github.com/witthaya/shopapi/internal/transport"
	"github.com/witthaya/shopapi/pkg/logging"
)

type AuthHTTP struct {
	Svc    *service.AuthService
	Images *storage.ImageStore
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	imageFilename, err := h.saveUpload(c)
	if err != nil {
		return err
	}

	result, err := h.Svc.Register(ctx, req.Name, req.Password, req.Age, imageFilename)
	if err != nil {
		// The upload happened before validation; undo it best-effort.
		h.Images.Remove(ctx, imageFilename)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, transport.AuthResponse{
		Message: "User created successfully",
		Token:   result.Token,
		User:    result.User,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	result, err := h.Svc.Login(ctx, req.Name, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, transport.AuthResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

// saveUpload stores the optional multipart image part, returning the
// generated filename or "" when the request carries no image.
func (h *AuthHTTP) saveUpload(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	name, err := h.Images.Save(file)
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("image_save_failed", "error", err)
		return "", echo.NewHTTPError(http.StatusInternalServerError, "could not store image")
	}
	return name, nil
}
