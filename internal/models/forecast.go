package models

import "time"

// Model keys used in ForecastBundle.PerModel.
const (
	ForecastModelVAR         = "var"
	ForecastModelAR          = "ar"
	ForecastModelPersistence = "persistence"
)

// ForecastBundle is the contract between the forecasting pipeline and the
// decision engine. Every sequence it contains has exactly Horizon entries;
// models that failed to fit are simply absent from PerModel, never
// null-filled. Ensemble is guaranteed non-empty: when no model fits, the
// persistence fallback supplies it.
type ForecastBundle struct {
	Horizon      int                  `json:"horizon"`
	BaseDate     time.Time            `json:"base_date"`
	CurrentPrice float64              `json:"current_price"`
	PerModel     map[string][]float64 `json:"per_model"`
	Ensemble     []float64            `json:"ensemble"`
	// Volatility is the forward conditional standard deviation path of
	// percentage returns; nil when the volatility model did not fit.
	Volatility []float64 `json:"volatility,omitempty"`
}
