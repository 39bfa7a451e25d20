package services

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/models"
	"github.com/oleotrade/pfad-procurement/pkg/econometrics"
)

// ForecastSynthesizer combines the fitted models into a per-day forecast
// bundle. Models that failed to fit are omitted; when nothing fits at all the
// persistence fallback keeps the ensemble non-empty so the decision engine
// always has a price path to work with.
type ForecastSynthesizer struct {
	logger *logrus.Logger
}

func NewForecastSynthesizer(logger *logrus.Logger) *ForecastSynthesizer {
	return &ForecastSynthesizer{logger: logger}
}

// Synthesize builds the forecast bundle for the given horizon. The returned
// audit map carries one entry per model that could not contribute.
func (s *ForecastSynthesizer) Synthesize(panel *models.PricePanel, fit *CausalFit, horizon int) (*models.ForecastBundle, map[string]string) {
	audit := make(map[string]string)
	bundle := &models.ForecastBundle{
		Horizon:      horizon,
		BaseDate:     panel.LastDate(),
		CurrentPrice: panel.LastPrice(),
		PerModel:     make(map[string][]float64),
	}

	if fit.VAR != nil {
		if path, err := s.varTargetPath(fit.VAR, horizon); err != nil {
			audit[models.ForecastModelVAR] = err.Error()
			s.logger.WithError(err).Warn("VAR forecast unavailable")
		} else {
			bundle.PerModel[models.ForecastModelVAR] = path
		}
	} else if fit.VARErr != "" {
		audit[models.ForecastModelVAR] = fit.VARErr
	}

	if arModel, err := econometrics.FitAR(panel.Target, 2); err != nil {
		audit[models.ForecastModelAR] = err.Error()
		s.logger.WithError(err).Warn("AR second-opinion fit failed")
	} else if path, err := arModel.Forecast(horizon); err != nil {
		audit[models.ForecastModelAR] = err.Error()
	} else if len(path) == horizon {
		bundle.PerModel[models.ForecastModelAR] = path
	}

	if len(bundle.PerModel) == 0 {
		bundle.PerModel[models.ForecastModelPersistence] = s.persistencePath(panel, horizon)
		s.logger.Warn("All price models failed, using persistence fallback forecast")
	}

	bundle.Ensemble = ensembleMean(bundle.PerModel, horizon)

	if fit.GARCH != nil {
		variances := fit.GARCH.Forecast(horizon)
		vol := make([]float64, len(variances))
		for i, v := range variances {
			// Returns were fitted on a x100 percent scale.
			vol[i] = math.Sqrt(v) / 100
		}
		bundle.Volatility = vol
	} else if fit.GARCHErr != "" {
		audit["garch"] = fit.GARCHErr
	}

	return bundle, audit
}

func (s *ForecastSynthesizer) varTargetPath(varModel *econometrics.VARModel, horizon int) ([]float64, error) {
	forecast, err := varModel.Forecast(horizon)
	if err != nil {
		return nil, err
	}
	path := make([]float64, len(forecast))
	for i, row := range forecast {
		path[i] = row[0]
	}
	return path, nil
}

// persistencePath replicates the last observed price with gaussian jitter
// scaled to the historical daily volatility, each draw bounded at three
// standard deviations and clamped non-negative. The generator is seeded from
// the panel so a re-run on the same data reproduces the same path.
func (s *ForecastSynthesizer) persistencePath(panel *models.PricePanel, horizon int) []float64 {
	last := panel.LastPrice()
	sigma := stdDevFloat64(pctReturns(panel.Target)) * last
	rng := rand.New(rand.NewSource(panel.LastDate().Unix() ^ int64(panel.Rows())))

	path := make([]float64, horizon)
	for i := range path {
		jitter := rng.NormFloat64() * sigma
		if jitter > 3*sigma {
			jitter = 3 * sigma
		} else if jitter < -3*sigma {
			jitter = -3 * sigma
		}
		price := last + jitter
		if price < 0 {
			price = 0
		}
		path[i] = price
	}
	return path
}

// ensembleMean averages the per-model paths elementwise, ignoring any path
// whose length does not match the horizon.
func ensembleMean(perModel map[string][]float64, horizon int) []float64 {
	mean := make([]float64, horizon)
	var contributors int
	for _, path := range perModel {
		if len(path) != horizon {
			continue
		}
		contributors++
		for i, v := range path {
			mean[i] += v
		}
	}
	if contributors == 0 {
		return mean
	}
	for i := range mean {
		mean[i] /= float64(contributors)
	}
	return mean
}
