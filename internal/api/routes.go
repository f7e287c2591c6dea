package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"comprice/server/config"
	"comprice/server/internal/database"
	"comprice/server/internal/queue"
)

func SetupRoutes(router *gin.Engine, db *database.Database, cfg *config.Config, q *queue.ListingQueue, logger *logrus.Logger) {
	handler := NewHandler(db, cfg, q, logger)

	api := router.Group("/api")
	{
		api.POST("/analyze", handler.Analyze)
		api.POST("/recommendations", handler.Recommendations)
		api.GET("/listings", handler.GetListings)
		api.POST("/listings/batch", handler.IngestBatch)
		api.GET("/health", handler.Health)
	}
}
