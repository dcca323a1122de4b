package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/EliJ91/albion-market-history/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware; request ids come first so every later log line carries one
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		items := v1.Group("/items")
		{
			items.GET("/search", handler.SearchItems)
			items.GET("/featured", handler.FeaturedItems)
			items.GET("/categories", handler.ItemCategories)
			items.POST("/reload", handler.ReloadCatalog)
			items.GET("/:id", handler.GetItem)
		}

		market := v1.Group("/market")
		{
			market.GET("/prices/:id", handler.MarketPrices)
			market.GET("/history/:id", handler.MarketHistory)
		}

		v1.GET("/reference", handler.Reference)

		selections := v1.Group("/selections")
		{
			selections.PUT("", handler.SaveSelection)
			selections.PUT("/:session", handler.SaveSelection)
			selections.GET("/:session", handler.GetSelection)
			selections.DELETE("/:session", handler.DeleteSelection)
		}
	}

	return router
}
