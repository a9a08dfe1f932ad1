package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/DaviHS/badaoburguer/internal/middleware/auth"
)

type Deps struct {
	ProductHandler *ProductHTTP
	OrderHandler   *OrderHTTP
	PaymentHandler *PaymentHTTP
	AuthHandler    *AuthHTTP
	UserHandler    *UserHTTP
	AuthMW         *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	// Public storefront.
	products := e.Group("/products")
	products.GET("", d.ProductHandler.ListProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	e.GET("/categories", d.ProductHandler.ListCategories)

	e.POST("/auth/register", d.AuthHandler.Register)
	e.POST("/auth/login", d.AuthHandler.Login)
	e.POST("/auth/refresh", d.AuthHandler.Refresh)
	e.POST("/auth/logout", d.AuthHandler.Logout)

	// Provider callback, unauthenticated.
	e.POST("/webhooks/mercadopago", d.PaymentHandler.Webhook)

	// Customer surface.
	user := e.Group("", d.AuthMW.RequireLogin)
	user.GET("/me", d.UserHandler.Me)
	user.POST("/orders", d.OrderHandler.CreateOrder)
	user.GET("/orders/my", d.OrderHandler.ListMyOrders)
	user.GET("/orders/:id", d.OrderHandler.GetOrder)
	user.POST("/payments", d.PaymentHandler.StartPayment)
	user.GET("/payments/:id/status", d.PaymentHandler.CheckStatus)
	user.POST("/push-subscriptions", d.UserHandler.RegisterPushSubscription)
	user.DELETE("/push-subscriptions", d.UserHandler.UnregisterPushSubscriptions)

	// Back office.
	admin := e.Group("/admin", d.AuthMW.RequireAdmin)
	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)
	admin.GET("/orders/statuses/:status/next", d.OrderHandler.NextStatuses)
	admin.DELETE("/orders/:id", d.OrderHandler.DeleteOrder)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.PATCH("/products/:id/stock", d.ProductHandler.AdjustStock)
	admin.POST("/categories", d.ProductHandler.CreateCategory)

	admin.GET("/users", d.UserHandler.ListUsers)
	admin.PATCH("/users/:id/active", d.UserHandler.SetActive)
	admin.PATCH("/users/:id/role", d.UserHandler.SetRole)
	admin.POST("/notifications/test", d.UserHandler.TestNotification)
}
