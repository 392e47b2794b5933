package api

import (
	"catalog-service/internal/api/handlers"
	"catalog-service/internal/api/interfaces"
	"catalog-service/internal/api/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes with proper middleware
func SetupRoutes(router *gin.Engine, services interfaces.Services) {
	cfg := services.GetConfig()
	log := services.GetLogger()

	// Global middleware
	router.Use(middlewares.Recovery(log))
	router.Use(middlewares.CORS(cfg.API.CORS))
	router.Use(middlewares.Security())
	router.Use(middlewares.RequestLogging(log))
	router.Use(middlewares.Metrics(services.GetMetrics()))
	router.Use(middlewares.Timeout(cfg.API.Timeout))

	// System endpoints: no auth and no rate limit, so probes and scrapers
	// are never cut off
	router.GET("/health", handlers.HealthCheck(services))
	router.GET("/metrics", handlers.Metrics(services))

	var limited []gin.HandlerFunc
	if limiter := services.RateLimiter(); limiter != nil {
		limited = append(limited, middlewares.RateLimit(limiter, log))
	}

	setupUserRoutes(router, services, limited)
	setupProductRoutes(router, services, limited)
}

// setupUserRoutes configures account routes; none require authentication
func setupUserRoutes(router *gin.Engine, services interfaces.Services, limited []gin.HandlerFunc) {
	users := router.Group("/users", limited...)
	{
		users.POST("/register", handlers.Register(services))
		users.POST("/login", handlers.Login(services))
		users.POST("/refresh-token", handlers.RefreshToken(services))
	}
}

// setupProductRoutes configures the authenticated catalog routes
func setupProductRoutes(router *gin.Engine, services interfaces.Services, limited []gin.HandlerFunc) {
	products := router.Group("/products", limited...)
	products.Use(middlewares.AuthRequired(services))

	list := []gin.HandlerFunc{handlers.ListProducts(services)}
	if store := services.ResponseCache(); store != nil {
		cached := middlewares.ResponseCache(store, services.GetConfig().Cache.TTL, services.GetLogger())
		list = append([]gin.HandlerFunc{cached}, list...)
	}

	{
		products.POST("", handlers.CreateProduct(services))
		products.GET("", list...)
		products.GET("/:id", handlers.GetProduct(services))
		products.PUT("/:id", handlers.UpdateProduct(services))
		products.DELETE("/:id", handlers.DeleteProduct(services))
	}
}
