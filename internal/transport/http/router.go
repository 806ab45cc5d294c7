package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/techhive/commerce/internal/handlers"
	"github.com/techhive/commerce/internal/middleware/auth"
)

type Deps struct {
	JWTSecret       []byte
	AuthHandler     *handlers.AuthHandler
	CartHandler     *handlers.CartHandler
	CheckoutHandler *handlers.CheckoutHandler
	ProductHandler  *handlers.ProductHandler
	OrderHandler    *handlers.OrderHandler
	DataHandler     *handlers.DataHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)
	v1.POST("/staff/login", d.AuthHandler.StaffLogin)

	v1.GET("/products", d.ProductHandler.GetProducts)
	v1.GET("/products/:id", d.ProductHandler.GetProduct)
	v1.GET("/categories", d.ProductHandler.GetCategories)
	v1.GET("/brands", d.ProductHandler.GetBrands)

	cart := v1.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.PATCH("", d.CartHandler.UpdateQuantity)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.DELETE("/:productID", d.CartHandler.RemoveFromCart)
	cart.POST("/checkout", d.CheckoutHandler.CheckoutSession)

	v1.POST("/checkout", d.CheckoutHandler.Checkout)

	admin := v1.Group("/admin", auth.RequireRole(d.JWTSecret, "admin", "database_manager"))

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/categories", d.ProductHandler.CreateCategory)

	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.GET("/orders/:id", d.OrderHandler.GetOrder)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)

	admin.GET("/data/stats", d.DataHandler.Stats)
	admin.POST("/data/backup", d.DataHandler.Backup)
}
