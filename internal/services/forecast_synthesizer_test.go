package services

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleotrade/pfad-procurement/internal/models"
)

// statPanel builds a panel where the target is driven by the lagged
// covariate, with enough noise for the volatility model to have something to
// fit.
func statPanel(n int, seed int64) *models.PricePanel {
	rng := rand.New(rand.NewSource(seed))
	driver := make([]float64, n)
	target := make([]float64, n)
	x := 0.0
	for i := 0; i < n; i++ {
		x = 0.5*x + rng.NormFloat64()
		driver[i] = x
		target[i] = 80000 + 400*rng.NormFloat64()
		if i > 0 {
			target[i] += 500 * driver[i-1]
		}
	}
	panel := &models.PricePanel{
		Target:         target,
		CovariateNames: []string{"driver"},
		Covariates:     [][]float64{driver},
	}
	for i := 0; i < n; i++ {
		panel.Dates = append(panel.Dates, day(i))
	}
	return panel
}

func tinyPanel() *models.PricePanel {
	panel := &models.PricePanel{
		Target: []float64{80000, 80100, 79900, 80050, 79950, 80020},
	}
	for i := range panel.Target {
		panel.Dates = append(panel.Dates, day(i))
	}
	return panel
}

func TestSynthesizeHorizonLengths(t *testing.T) {
	panel := statPanel(400, 7)
	fit := NewCausalModelService(testLogger(), 4, 10).Fit(panel)
	synthesizer := NewForecastSynthesizer(testLogger())

	for _, horizon := range []int{1, 7, 30} {
		bundle, _ := synthesizer.Synthesize(panel, fit, horizon)
		require.Len(t, bundle.Ensemble, horizon)
		for name, path := range bundle.PerModel {
			assert.Len(t, path, horizon, "model %s", name)
		}
		if bundle.Volatility != nil {
			assert.Len(t, bundle.Volatility, horizon)
		}
		assert.Equal(t, panel.LastPrice(), bundle.CurrentPrice)
		assert.Equal(t, panel.LastDate(), bundle.BaseDate)
	}
}

func TestSynthesizePersistenceFallback(t *testing.T) {
	panel := tinyPanel()
	fit := &CausalFit{VARErr: "var fit failed", GARCHErr: "garch fit failed"}
	synthesizer := NewForecastSynthesizer(testLogger())

	bundle, audit := synthesizer.Synthesize(panel, fit, 30)

	require.Len(t, bundle.Ensemble, 30)
	path, ok := bundle.PerModel[models.ForecastModelPersistence]
	require.True(t, ok, "persistence fallback must supply the forecast")
	require.Len(t, path, 30)

	last := panel.LastPrice()
	sigma := stdDevFloat64(pctReturns(panel.Target)) * last
	for _, v := range path {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.InDelta(t, last, v, 3*sigma+1e-9)
	}

	assert.Contains(t, audit, models.ForecastModelVAR)
	assert.Contains(t, audit, models.ForecastModelAR)
	assert.Nil(t, bundle.Volatility)
}

func TestSynthesizePersistenceIsDeterministic(t *testing.T) {
	panel := tinyPanel()
	fit := &CausalFit{VARErr: "var fit failed"}
	synthesizer := NewForecastSynthesizer(testLogger())

	first, _ := synthesizer.Synthesize(panel, fit, 10)
	second, _ := synthesizer.Synthesize(panel, fit, 10)
	assert.Equal(t, first.Ensemble, second.Ensemble)
}

func TestEnsembleMeanExcludesWrongLength(t *testing.T) {
	perModel := map[string][]float64{
		"good":  {10, 20, 30},
		"short": {1, 2},
		"other": {20, 30, 40},
	}
	mean := ensembleMean(perModel, 3)
	assert.Equal(t, []float64{15, 25, 35}, mean)
}

func TestSynthesizeVolatilityPath(t *testing.T) {
	panel := statPanel(400, 11)
	fit := NewCausalModelService(testLogger(), 4, 10).Fit(panel)
	require.NotNil(t, fit.GARCH, "volatility model should fit on 400 noisy observations")

	bundle, _ := NewForecastSynthesizer(testLogger()).Synthesize(panel, fit, 30)
	require.Len(t, bundle.Volatility, 30)
	for _, v := range bundle.Volatility {
		assert.Greater(t, v, 0.0)
		assert.False(t, math.IsNaN(v))
	}
}
