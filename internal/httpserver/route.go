package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler     *OrderHTTP
	InventoryHandler *InventoryHTTP
	CatalogHandler   *CatalogHTTP
	CategoryHandler  *CategoryHTTP
	AuthHandler      *AuthHTTP
	CartHandler      *CartHTTP

	ServiceName string
	JWTSecret   []byte
	Refresher   middleware.Refresher
	Ping        func(context.Context) error
	Metrics     http.Handler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", ReadyHandler(d.Ping))
	e.GET("/server/status", StatusHandler(d.ServiceName))
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics))
	}

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.Refresher)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)

	api.GET("/users/me", d.AuthHandler.Me, authMW.RequireAuth)

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.GET("/:id/stock", d.InventoryHandler.GetStock)
	products.POST("", d.CatalogHandler.CreateProduct, authMW.RequireAdmin)
	products.PATCH("/:id", d.CatalogHandler.PatchProduct, authMW.RequireAdmin)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct, authMW.RequireAdmin)

	categories := api.Group("/categories")
	categories.GET("", d.CategoryHandler.ListCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categories.POST("", d.CategoryHandler.CreateCategory, authMW.RequireAdmin)
	categories.PATCH("/:id", d.CategoryHandler.PatchCategory, authMW.RequireAdmin)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory, authMW.RequireAdmin)

	api.POST("/inventory/check", d.InventoryHandler.CheckStock)

	// One auth middleware per route: a second one would try to rotate the
	// same refresh token again.
	orders := api.Group("/orders")
	orders.POST("", d.OrderHandler.CreateOrder, authMW.RequireAuth)
	orders.GET("", d.OrderHandler.ListMyOrders, authMW.RequireAuth)
	orders.GET("/:id", d.OrderHandler.GetOrder, authMW.RequireAuth)
	orders.PUT("/:id/status", d.OrderHandler.UpdateStatus, authMW.RequireAdmin)

	cart := api.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.POST("/checkout", d.OrderHandler.Checkout)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.DELETE("/:product_id", d.CartHandler.DeleteOneFromCart)

	admin := api.Group("/admin", authMW.RequireAdmin)
	admin.GET("/users", d.AuthHandler.ListUsers)
	admin.PUT("/users/:id/role", d.AuthHandler.UpdateRole)
	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.DELETE("/orders/:id", d.OrderHandler.DeleteOrder)
}
