package http

import (
	"github.com/gin-gonic/gin"

	"github.com/boqmatch/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		materials := v1.Group("/materials")
		{
			materials.POST("/match", handler.MatchMaterial)
			materials.POST("/match/batch", handler.MatchBatch)
			materials.POST("/ingest", handler.Ingest)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.POST("", handler.SubmitReview)
			reviews.GET("", handler.ListReviews)
		}
	}

	return router
}
