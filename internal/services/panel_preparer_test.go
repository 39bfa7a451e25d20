package services

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleotrade/pfad-procurement/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func day(n int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func makeRows(n int, price func(i int) float64, covs func(i int) map[string]float64) []models.RawRow {
	rows := make([]models.RawRow, n)
	for i := range rows {
		rows[i] = models.RawRow{Date: day(i), Target: price(i)}
		if covs != nil {
			rows[i].Covariates = covs(i)
		}
	}
	return rows
}

func TestPanelPreparerCleansAndSorts(t *testing.T) {
	preparer := NewPanelPreparer(testLogger(), 100)

	rows := makeRows(120, func(i int) float64 { return 80000 + float64(i)*10 }, func(i int) map[string]float64 {
		v := 900 + float64(i)
		if i%7 == 3 {
			v = math.NaN() // gap to be filled
		}
		return map[string]float64{"cpo": v, "brent": 80 + float64(i)*0.1}
	})
	// Shuffle in a duplicate date and an unusable target.
	rows[10].Date = rows[9].Date
	rows[20].Target = -5
	// Reverse order to exercise sorting.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}

	panel, err := preparer.Prepare(rows)
	require.NoError(t, err)

	assert.Equal(t, 118, panel.Rows())
	for i := 1; i < panel.Rows(); i++ {
		assert.True(t, panel.Dates[i].After(panel.Dates[i-1]), "dates must be strictly increasing")
	}
	for _, v := range panel.Target {
		assert.Greater(t, v, 0.0)
	}

	cpo, ok := panel.Covariate("cpo")
	require.True(t, ok)
	for _, v := range cpo {
		assert.False(t, math.IsNaN(v), "gaps must be filled")
	}
}

func TestPanelPreparerDropsEmptyCovariateColumn(t *testing.T) {
	preparer := NewPanelPreparer(testLogger(), 100)

	rows := makeRows(110, func(i int) float64 { return 80000 }, func(i int) map[string]float64 {
		return map[string]float64{"useful": float64(i), "empty": math.NaN()}
	})

	panel, err := preparer.Prepare(rows)
	require.NoError(t, err)

	_, ok := panel.Covariate("empty")
	assert.False(t, ok, "all-missing column must be dropped")
	_, ok = panel.Covariate("useful")
	assert.True(t, ok)
}

func TestPanelPreparerInsufficientData(t *testing.T) {
	preparer := NewPanelPreparer(testLogger(), 100)

	rows := makeRows(50, func(i int) float64 { return 80000 }, nil)
	_, err := preparer.Prepare(rows)

	var insufficient *models.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 50, insufficient.Rows)
	assert.Equal(t, 100, insufficient.MinRows)

	_, err = preparer.Prepare(nil)
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Rows)
}
