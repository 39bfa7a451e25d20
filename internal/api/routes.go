package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/api/handlers"
	"github.com/oleotrade/pfad-procurement/internal/services"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// SetupRoutes wires the HTTP surface: health plus the analysis endpoints.
func SetupRoutes(router *gin.Engine, pipeline *services.AnalysisPipeline, logger *logrus.Logger) {
	router.GET("/health", handlers.HealthCheck(Version))

	analysisHandler := handlers.NewAnalysisHandler(pipeline, logger)

	v1 := router.Group("/api/v1")
	{
		analysis := v1.Group("/analysis")
		{
			analysis.POST("/run", analysisHandler.RunAnalysis)
			analysis.GET("/dashboard", analysisHandler.GetDashboard)
		}
	}
}
