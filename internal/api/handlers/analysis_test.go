package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleotrade/pfad-procurement/internal/config"
	"github.com/oleotrade/pfad-procurement/internal/models"
	"github.com/oleotrade/pfad-procurement/internal/recorder"
	"github.com/oleotrade/pfad-procurement/internal/services"
)

func testRouter() *gin.Engine {
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
		Business: config.BusinessDefaults{
			MonthlyConsumptionTons: 500,
			CurrentInventoryTons:   800,
			SafetyStockDays:        15,
			MaxStorageCapacityTons: 2000,
		},
	}
	pipeline := services.NewAnalysisPipeline(logger, cfg, recorder.NewNoopRecorder())
	handler := NewAnalysisHandler(pipeline, logger)

	router := gin.New()
	router.POST("/api/v1/analysis/run", handler.RunAnalysis)
	router.GET("/api/v1/analysis/dashboard", handler.GetDashboard)
	return router
}

func analysisPayload(rows int) map[string]interface{} {
	payload := make([]map[string]interface{}, rows)
	for i := range payload {
		payload[i] = map[string]interface{}{
			"date":   fmt.Sprintf("2025-%02d-%02d", i/28+1, i%28+1),
			"target": 80000 + 15*float64(i),
			"covariates": map[string]float64{
				"cpo": 900 + 0.15*float64(i),
			},
		}
	}
	return map[string]interface{}{
		"rows":    payload,
		"horizon": 14,
	}
}

func TestRunAnalysisEndpoint(t *testing.T) {
	router := testRouter()

	body, err := json.Marshal(analysisPayload(300))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var dashboard models.DecisionDashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dashboard))
	assert.NotEmpty(t, dashboard.RunID)
	assert.Equal(t, 14, dashboard.Horizon)

	// Dashboard endpoint now serves the same run.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/analysis/dashboard", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched models.DecisionDashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, dashboard.RunID, fetched.RunID)
}

func TestRunAnalysisRejectsBadInput(t *testing.T) {
	router := testRouter()

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"rows": [`, http.StatusBadRequest},
		{"missing rows", `{"horizon": 30}`, http.StatusBadRequest},
		{"bad date", `{"rows": [{"date": "not-a-date", "target": 80000}]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/run", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestRunAnalysisInsufficientData(t *testing.T) {
	router := testRouter()

	body, err := json.Marshal(analysisPayload(20))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient data")
}

func TestRunAnalysisInfeasibleStorage(t *testing.T) {
	router := testRouter()

	payload := analysisPayload(300)
	payload["business_parameters"] = map[string]interface{}{
		"monthly_consumption_tons":  500,
		"current_inventory_tons":    1950,
		"safety_stock_days":         15,
		"max_storage_capacity_tons": 2000,
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "infeasible storage")
}

func TestGetDashboardBeforeAnyRun(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/dashboard", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
