package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/server/http/handlers"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StorefrontFacade, health *handlers.HealthHandler, metrics *middleware.Metrics, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(metrics.Handler())
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	productHandler := handlers.NewProductHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)

	engine.GET("/healthz", health.Check)
	engine.GET("/metrics", metrics.Exporter())

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	products := api.Group("/products")
	products.GET("", productHandler.List)
	products.GET("/top", productHandler.Top)
	products.GET("/:id", productHandler.Get)

	reviews := products.Group("")
	reviews.Use(middleware.AuthRequired(facade))
	reviews.POST("/:id/reviews", productHandler.Review)

	adminProducts := products.Group("")
	adminProducts.Use(middleware.AuthRequired(facade), middleware.AdminRequired())
	adminProducts.POST("", productHandler.Create)
	adminProducts.PUT("/:id", productHandler.Update)
	adminProducts.DELETE("/:id", productHandler.Delete)

	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(facade))
	orders.POST("", orderHandler.Create)
	orders.GET("/mine", orderHandler.ListMine)
	orders.GET("/:id", orderHandler.Get)

	adminOrders := orders.Group("")
	adminOrders.Use(middleware.AdminRequired())
	adminOrders.GET("", orderHandler.ListAll)
	adminOrders.PUT("/:id/deliver", orderHandler.Deliver)

	payments := api.Group("/payments")
	payments.Use(middleware.AuthRequired(facade))
	payments.POST("/intent", paymentHandler.Intent)
	payments.POST("/validate", paymentHandler.Validate)

	return engine
}
