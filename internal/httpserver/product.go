package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/witthaya/shopapi/internal/service"
	"github.com/witthaya/shopapi/internal/storage"
	"github.com/witthaya/shopapi/internal/transport"
	"github.com/witthaya/shopapi/pkg/logging"
)

type ProductHTTP struct {
	Svc    *service.CatalogService
	Orders *service.OrderService
	Images *storage.ImageStore
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	items, err := h.Svc.ListProducts(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	imageFilename, err := h.saveUpload(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.CreateProduct(ctx, req, imageFilename)
	if err != nil {
		h.Images.Remove(ctx, imageFilename)
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_product_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	newImage, err := h.saveUpload(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.UpdateProduct(ctx, id, req, newImage)
	if err != nil {
		h.Images.Remove(ctx, newImage)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.DeleteProduct(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product deleted successfully",
		"product": prod,
	})
}

// GetProductOrders serves the admin projection of orders containing one
// product, line items redacted to that product.
func (h *ProductHTTP) GetProductOrders(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	orders, err := h.Orders.ListOrdersForProduct(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *ProductHTTP) saveUpload(c echo.Context) (string, error) {
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
