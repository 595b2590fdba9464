package handlers

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront-backend/internal/auth"
	"storefront-backend/internal/cart"
	"storefront-backend/internal/catalog"
	"storefront-backend/internal/checkout"
	"storefront-backend/internal/order"
	"storefront-backend/internal/validation"
)

// Deps groups everything the router needs.
type Deps struct {
	Catalog      *catalog.Store
	Cart         *cart.Service
	Checkout     *checkout.Service
	Orders       *order.Service
	JWTSecret    []byte
	AllowOrigins []string
	Logger       *slog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
	}))

	v := validation.New()
	products := NewProductHandler(d.Catalog, d.Logger)
	carts := NewCartHandler(d.Cart, v, d.Logger)
	orders := NewOrderHandler(d.Checkout, d.Orders, v, d.Logger)
	admin := NewAdminHandler(d.Orders, d.Catalog, v, d.Logger)

	r.GET("/api/products", products.List)
	r.GET("/api/products/:id", products.Get)

	authGroup := r.Group("/api", auth.Middleware(d.JWTSecret))
	{
		authGroup.GET("/cart", carts.Get)
		authGroup.POST("/cart/add", carts.Add)
		authGroup.PUT("/cart/update", carts.Update)
		authGroup.DELETE("/cart/remove/:productId", carts.Remove)
		authGroup.DELETE("/cart/clear", carts.Clear)

		authGroup.POST("/orders", orders.Create)
		authGroup.GET("/orders", orders.List)
		authGroup.GET("/orders/:id", orders.Get)
		authGroup.PUT("/orders/:id/cancel", orders.Cancel)
		authGroup.PUT("/orders/:id/pay", orders.Pay)
	}

	adminGroup := r.Group("/api/admin", auth.Middleware(d.JWTSecret), auth.AdminOnly())
	{
		adminGroup.GET("/orders", admin.ListOrders)
		adminGroup.PUT("/orders/:id/status", admin.UpdateOrderStatus)
		adminGroup.POST("/products", admin.CreateProduct)
		adminGroup.PUT("/products/:id", admin.UpdateProduct)
		adminGroup.DELETE("/products/:id", admin.DeleteProduct)
	}

	return r
}
