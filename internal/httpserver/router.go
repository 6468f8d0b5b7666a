package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/witthaya/shopapi/internal/middleware/auth"
)

type Deps struct {
	Auth     *mwauth.Middleware
	AuthH    *AuthHTTP
	UserH    *UserHTTP
	ProductH *ProductHTTP
	OrderH   *OrderHTTP
	SearchH  *SearchHTTP // nil when elasticsearch is not configured
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	users := v1.Group("/users")
	users.POST("/register", d.AuthH.Register)
	users.POST("/login", d.AuthH.Login)
	users.GET("", d.UserH.ListUsers, d.Auth.Require(mwauth.ActionListUsers))
	users.GET("/:id", d.UserH.GetUser, d.Auth.RequireAuth)
	users.PUT("/:id", d.UserH.UpdateUser, d.Auth.RequireAuth)
	users.DELETE("/:id", d.UserH.DeleteUser, d.Auth.RequireAuth)

	products := v1.Group("/products")
	products.GET("", d.ProductH.GetProducts)
	if d.SearchH != nil {
		products.GET("/search", d.SearchH.SearchProducts)
	}
	products.GET("/:id", d.ProductH.GetProduct)
	products.POST("", d.ProductH.CreateProduct, d.Auth.Require(mwauth.ActionManageCatalog))
	products.PUT("/:id", d.ProductH.UpdateProduct, d.Auth.Require(mwauth.ActionManageCatalog))
	products.DELETE("/:id", d.ProductH.DeleteProduct, d.Auth.Require(mwauth.ActionManageCatalog))
	products.GET("/:id/orders", d.ProductH.GetProductOrders, d.Auth.Require(mwauth.ActionViewProductOrders))

	orders := v1.Group("/orders")
	orders.POST("", d.OrderH.CreateOrder, d.Auth.Require(mwauth.ActionPlaceOrder))
	orders.GET("/myorders", d.OrderH.GetMyOrders, d.Auth.Require(mwauth.ActionListOwnOrders))
	orders.GET("", d.OrderH.GetOrders, d.Auth.Require(mwauth.ActionListAllOrders))
	orders.GET("/:id", d.OrderH.GetOrder, d.Auth.Require(mwauth.ActionViewOrder))
}
