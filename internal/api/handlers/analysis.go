package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/models"
	"github.com/oleotrade/pfad-procurement/internal/services"
)

// AnalysisHandler exposes the analysis pipeline over HTTP. It carries no
// presentation logic; the dashboard JSON is the handoff to the UI.
type AnalysisHandler struct {
	pipeline *services.AnalysisPipeline
	logger   *logrus.Logger
}

func NewAnalysisHandler(pipeline *services.AnalysisPipeline, logger *logrus.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

type rawRowPayload struct {
	Date       string             `json:"date" binding:"required"`
	Target     float64            `json:"target"`
	Covariates map[string]float64 `json:"covariates"`
}

type runAnalysisRequest struct {
	Rows      []rawRowPayload            `json:"rows" binding:"required"`
	Horizon   int                        `json:"horizon"`
	Business  *models.BusinessParameters `json:"business_parameters"`
	Suppliers []models.SupplierProfile   `json:"suppliers"`
}

// RunAnalysis executes a full analysis run and returns the decision
// dashboard.
func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	var req runAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	rows := make([]models.RawRow, len(req.Rows))
	for i, payload := range req.Rows {
		date, err := parseDate(payload.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("row %d: %v", i, err)})
			return
		}
		rows[i] = models.RawRow{
			Date:       date,
			Target:     payload.Target,
			Covariates: payload.Covariates,
		}
	}

	analysisReq := &services.AnalysisRequest{
		Rows:      rows,
		Horizon:   req.Horizon,
		Suppliers: req.Suppliers,
	}
	if req.Business != nil {
		analysisReq.Params = *req.Business
	}

	dashboard, err := h.pipeline.Run(c.Request.Context(), analysisReq)
	if err != nil {
		h.logger.WithError(err).Warn("Analysis run rejected")
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetDashboard returns the most recent decision dashboard.
func (h *AnalysisHandler) GetDashboard(c *gin.Context) {
	dashboard := h.pipeline.Dashboard()
	if dashboard == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analysis run has completed yet"})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func statusForError(err error) int {
	var infeasible *models.InfeasibleStorageError
	switch {
	case errors.Is(err, services.ErrRunInProgress):
		return http.StatusConflict
	case errors.As(err, &infeasible):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q", value)
	}
	return t, nil
}
