package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/witthaya/shopapi/internal/middleware/auth"
	"github.com/witthaya/shopapi/internal/service"
	"github.com/witthaya/shopapi/internal/transport"
	"github.com/witthaya/shopapi/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, _ := mwauth.PrincipalFrom(c)
	order, err := h.Svc.PlaceOrder(ctx, p.ID, p.Role, req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Order created successfully",
		"order":   order,
	})
}

func (h *OrderHTTP) GetMyOrders(c echo.Context) error {
	p, _ := mwauth.PrincipalFrom(c)
	orders, err := h.Svc.ListMyOrders(c.Request().Context(), p.ID, p.Role)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	orders, err := h.Svc.ListAllOrders(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}
