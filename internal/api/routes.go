package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		articles := v1.Group("/articles")
		{
			articles.GET("", handler.ListArticles)         // GET /api/v1/articles
			articles.POST("", handler.CreateArticle)       // POST /api/v1/articles
			articles.GET("/stats", handler.GetStats)       // GET /api/v1/articles/stats
			articles.GET("/:id", handler.GetArticle)       // GET /api/v1/articles/:id
			articles.PATCH("/:id", handler.UpdateArticle)  // PATCH /api/v1/articles/:id
			articles.DELETE("/:id", handler.DeleteArticle) // DELETE /api/v1/articles/:id
		}

		v1.POST("/sync", handler.TriggerSync)     // POST /api/v1/sync
		v1.POST("/translate", handler.Translate)  // POST /api/v1/translate
	}
}
