package server

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/openmicroshop/commerce-backend/internal/handlers"
	"github.com/openmicroshop/commerce-backend/internal/middleware"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
)

type UsersRouterConfig struct {
	Log         *logger.Logger
	UserHandler *handlers.UserHandler
}

type ProductsRouterConfig struct {
	Log            *logger.Logger
	ProductHandler *handlers.ProductHandler
}

type StoresRouterConfig struct {
	Log          *logger.Logger
	StoreHandler *handlers.StoreHandler
}

type OrdersRouterConfig struct {
	Log          *logger.Logger
	OrderHandler *handlers.OrderHandler
}

type CartsRouterConfig struct {
	Log         *logger.Logger
	CartHandler *handlers.CartHandler
}

type AuthRouterConfig struct {
	Log            *logger.Logger
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func newBase(log *logger.Logger, serviceName string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS())
	router.GET("/healthcheck", handlers.HealthCheck)
	return router
}

func NewUsersRouter(cfg UsersRouterConfig) *gin.Engine {
	router := newBase(cfg.Log, "users")
	api := router.Group("/api")
	{
		api.GET("/users", cfg.UserHandler.List)
		api.GET("/users/:id", cfg.UserHandler.Get)
		api.POST("/users", cfg.UserHandler.Create)
		api.PUT("/users/:id", cfg.UserHandler.Update)
		api.DELETE("/users/:id", cfg.UserHandler.Delete)
	}
	return router
}

func NewProductsRouter(cfg ProductsRouterConfig) *gin.Engine {
	router := newBase(cfg.Log, "products")
	api := router.Group("/api")
	{
		api.GET("/products", cfg.ProductHandler.List)
		api.GET("/products/:id", cfg.ProductHandler.Get)
		api.POST("/products", cfg.ProductHandler.Create)
		api.PUT("/products/:id", cfg.ProductHandler.Update)
		api.DELETE("/products/:id", cfg.ProductHandler.Delete)
	}
	return router
}

func NewStoresRouter(cfg StoresRouterConfig) *gin.Engine {
	router := newBase(cfg.Log, "stores")
	api := router.Group("/api")
	{
		api.GET("/stores", cfg.StoreHandler.List)
		api.GET("/stores/:id", cfg.StoreHandler.Get)
		api.POST("/stores", cfg.StoreHandler.Create)
		api.PUT("/stores/:id", cfg.StoreHandler.Update)
		api.DELETE("/stores/:id", cfg.StoreHandler.Delete)
		api.GET("/stores/:id/products", cfg.StoreHandler.ListProducts)
		api.POST("/stores/:id/products", cfg.StoreHandler.AttachProduct)
		api.DELETE("/stores/:id/products/:product_id", cfg.StoreHandler.DetachProduct)
	}
	return router
}

func NewOrdersRouter(cfg OrdersRouterConfig) *gin.Engine {
	router := newBase(cfg.Log, "orders")
	api := router.Group("/api")
	{
		api.GET("/orders", cfg.OrderHandler.List)
		api.GET("/orders/:id", cfg.OrderHandler.Get)
		api.POST("/orders", cfg.OrderHandler.Create)
		api.PUT("/orders/:id", cfg.OrderHandler.Update)
		api.DELETE("/orders/:id", cfg.OrderHandler.Delete)
	}
	return router
}

func NewCartsRouter(cfg CartsRouterConfig) *gin.Engine {
	router := newBase(cfg.Log, "carts")
	api := router.Group("/api")
	{
		api.GET("/carts/:user_id", cfg.CartHandler.Get)
		api.POST("/carts/:user_id/items", cfg.CartHandler.AddItem)
		api.DELETE("/carts/:user_id/items/:item_id", cfg.CartHandler.RemoveItem)
	}
	return router
}

func NewAuthRouter(cfg AuthRouterConfig) *gin.Engine {
	router := newBase(cfg.Log, "auth")
	api := router.Group("/api")
	{
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
		api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
		api.GET("/auth/verify", cfg.AuthHandler.Verify)
	}
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/auth/logout", cfg.AuthHandler.Logout)
	}
	return router
}
