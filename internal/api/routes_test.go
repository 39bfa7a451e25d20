package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleotrade/pfad-procurement/internal/api/handlers"
	"github.com/oleotrade/pfad-procurement/internal/config"
	"github.com/oleotrade/pfad-procurement/internal/models"
	"github.com/oleotrade/pfad-procurement/internal/recorder"
	"github.com/oleotrade/pfad-procurement/internal/services"
)

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := &config.Config{
		Pipeline: config.PipelineConfig{
			DefaultHorizonDays: 30,
			MaxCovariates:      4,
			MaxLag:             10,
			MinPanelRows:       100,
		},
		Costs: models.DefaultCostStructure(),
	}
	pipeline := services.NewAnalysisPipeline(logger, cfg, recorder.NewNoopRecorder())

	router := gin.New()
	SetupRoutes(router, pipeline, logger)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var health handlers.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, Version, health.Version)

	// Analysis routes are registered under /api/v1.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/analysis/dashboard", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/analysis/run", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
