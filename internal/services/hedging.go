package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/models"
)

// HedgingService picks one of four discrete hedging strategies from the
// dispersion of the forecast path and quantifies the exposure left open.
type HedgingService struct {
	logger *logrus.Logger
}

func NewHedgingService(logger *logrus.Logger) *HedgingService {
	return &HedgingService{logger: logger}
}

// Recommend classifies forecast volatility into half-open bands and sizes
// the hedge against the recommended order quantity.
func (s *HedgingService) Recommend(bundle *models.ForecastBundle, orderQty float64) *models.HedgeResult {
	sigma := forecastVolatility(bundle.Ensemble)
	exposure := bundle.CurrentPrice * orderQty

	result := selectHedge(sigma, exposure)
	result.HedgeQuantityTons = orderQty * result.HedgeRatio
	result.ValueAtRisk95 = exposure * sigma * 1.645
	result.ExpectedShortfall99 = exposure * sigma * 2.33
	result.MaxLoss = result.ExpectedShortfall99 * (1 - result.RiskReduction)

	s.logger.WithFields(logrus.Fields{
		"strategy":    result.Strategy,
		"hedge_ratio": result.HedgeRatio,
		"volatility":  sigma,
		"var_95":      result.ValueAtRisk95,
	}).Info("Hedging strategy selected")

	return result
}

// selectHedge maps volatility onto a strategy. Band edges belong to the
// lower band, so a volatility of exactly 0.03 still selects the dynamic
// hedge.
func selectHedge(sigma, exposure float64) *models.HedgeResult {
	result := &models.HedgeResult{Volatility: sigma}
	switch {
	case sigma > 0.06:
		result.Strategy = models.HedgeFull
		result.HedgeRatio = 1.0
		result.RiskReduction = 0.9
		result.HedgingCost = exposure * 1.0 * 0.035
		result.Rationale = fmt.Sprintf("Volatility %.1f%% is extreme, hedge the full order", sigma*100)
	case sigma > 0.03:
		result.Strategy = models.HedgeHalf
		result.HedgeRatio = 0.5
		result.RiskReduction = 0.5
		result.HedgingCost = exposure * 0.5 * 0.02
		result.Rationale = fmt.Sprintf("Volatility %.1f%% is elevated, hedge half the order", sigma*100)
	case sigma > 0.015:
		ratio := sigma / 0.05
		if ratio > 0.8 {
			ratio = 0.8
		}
		result.Strategy = models.HedgeDynamic
		result.HedgeRatio = ratio
		result.RiskReduction = ratio
		result.HedgingCost = exposure * ratio * 0.025
		result.Rationale = fmt.Sprintf("Volatility %.1f%% is moderate, scale the hedge to %.0f%% of the order", sigma*100, ratio*100)
	default:
		result.Strategy = models.HedgeNone
		result.Rationale = fmt.Sprintf("Volatility %.1f%% is low, hedging costs outweigh the protection", sigma*100)
	}
	return result
}
