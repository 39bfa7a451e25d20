package services

import (
	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/models"
	"github.com/oleotrade/pfad-procurement/pkg/econometrics"
)

// DiagnosticsService classifies each series of the panel for stationarity
// and, for covariates, cointegration with the target. A numerically failed
// test marks the series non-stationary (or non-cointegrated) and retains the
// error text for audit; it never aborts the stage.
type DiagnosticsService struct {
	logger *logrus.Logger
}

func NewDiagnosticsService(logger *logrus.Logger) *DiagnosticsService {
	return &DiagnosticsService{logger: logger}
}

// Run tests the target first, then every covariate in panel order.
func (s *DiagnosticsService) Run(panel *models.PricePanel) []models.DiagnosticResult {
	results := make([]models.DiagnosticResult, 0, 1+len(panel.CovariateNames))
	results = append(results, s.testSeries("target", panel.Target, nil))
	for i, name := range panel.CovariateNames {
		results = append(results, s.testSeries(name, panel.Covariates[i], panel.Target))
	}
	return results
}

func (s *DiagnosticsService) testSeries(name string, series, target []float64) models.DiagnosticResult {
	result := models.DiagnosticResult{Series: name}

	stat, pValue, err := econometrics.ADFTest(series)
	if err != nil {
		result.StationarityError = err.Error()
		s.logger.WithError(err).WithField("series", name).Warn("Stationarity test failed")
	} else {
		result.TestStatistic = stat
		result.PValue = pValue
		result.IsStationary = pValue < 0.05
	}

	if target != nil {
		coStat, coPValue, _, err := econometrics.EngleGrangerTest(series, target)
		if err != nil {
			result.CointegrationError = err.Error()
			s.logger.WithError(err).WithField("series", name).Warn("Cointegration test failed")
		} else {
			result.CointegrationStat = coStat
			result.CointegrationPValue = coPValue
			result.IsCointegrated = coPValue < 0.05
		}
	}

	s.logger.WithFields(logrus.Fields{
		"series":        name,
		"stationary":    result.IsStationary,
		"cointegrated":  result.IsCointegrated,
		"adf_statistic": result.TestStatistic,
	}).Debug("Series diagnostics complete")

	return result
}
