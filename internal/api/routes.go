package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, metricsHandler http.Handler) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	// Prometheus metrics
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	v1 := router.Group("/api/v1")

	// Classification endpoints
	classify := v1.Group("/classify")
	classify.POST("", handler.Classify)
	classify.POST("/batch", handler.ClassifyBatch)
	classify.GET("/:event_id", handler.GetClassificationHistory)

	// Provider payload import
	events := v1.Group("/events")
	events.POST("/import/:provider", handler.ImportEvents)

	// Tag rule management endpoints
	rules := v1.Group("/rules")
	rules.GET("", handler.ListRules)
	rules.POST("", handler.CreateRule)
	rules.PUT("/:id", handler.UpdateRule)
	rules.DELETE("/:id", handler.DeleteRule)

	// Provider reputation endpoints
	providers := v1.Group("/providers")
	providers.GET("", handler.ListProviders)
	providers.GET("/:name", handler.GetProvider)
	providers.GET("/:name/stats", handler.GetProviderStats)

	// Statistics endpoints
	stats := v1.Group("/stats")
	stats.GET("", handler.GetStats)
	stats.GET("/subcategories", handler.GetSubcategoryStats)
	stats.GET("/providers", handler.GetProviderDistribution)
}
