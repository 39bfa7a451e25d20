package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleotrade/pfad-procurement/internal/models"
)

func TestDashboardBuild(t *testing.T) {
	service := NewDashboardService(testLogger())
	panel := statPanel(400, 21)
	params := defaultParams()

	bundle := timingBundle(80000, flatForecast(30, 80000))
	eoq := &models.EOQResult{OptimalQuantityTons: 250, MinOrderTons: 250, MaxOrderTons: 1200}
	timing := &models.TimingResult{Action: models.TimingBuyImmediately, TotalSavings: 120000}
	suppliers := &models.SupplierResult{
		Evaluations: []models.SupplierEvaluation{{Name: "Supplier_A", CostPerTon: 82500}},
		Ranking:     []string{"Supplier_A"},
		Recommended: "Supplier_A",
		CostSpread:  240000,
	}
	hedging := &models.HedgeResult{Strategy: models.HedgeDynamic, HedgeQuantityTons: 150}
	findings := []models.CausalFinding{
		{Covariate: "driver", IsCausal: true, Tier: models.TierHigh},
		{Covariate: "noise", IsCausal: false, Tier: models.TierNone},
	}
	audit := map[string]string{"garch": "did not converge"}

	dashboard := service.Build("run-1", panel, bundle, findings, params,
		eoq, timing, suppliers, hedging, audit)

	assert.Equal(t, "run-1", dashboard.RunID)
	assert.Equal(t, 30, dashboard.Horizon)
	assert.InDelta(t, 80000, dashboard.CurrentPrice, 1e-9)

	summary := dashboard.Summary
	// 800 t of inventory at 500 t/month is 48 days of supply.
	assert.InDelta(t, 48, summary.CurrentInventoryDays, 1e-9)
	assert.Equal(t, models.TimingBuyImmediately, summary.OptimalTiming)
	assert.Equal(t, "Supplier_A", summary.BestSupplier)
	assert.Equal(t, models.HedgeDynamic, summary.HedgingRecommendation)
	assert.Equal(t, []string{"driver"}, summary.KeyCausalDrivers)

	// Monthly cost uses the recommended supplier's per-ton cost.
	wantMonthly := decimal.NewFromFloat(500 * 82500.0).Round(2)
	assert.True(t, summary.TotalMonthlyProcurementCost.Equal(wantMonthly),
		"got %s want %s", summary.TotalMonthlyProcurementCost, wantMonthly)
	wantSavings := decimal.NewFromFloat((120000 + 240000) / 12.0).Round(2)
	assert.True(t, summary.EstimatedMonthlySavings.Equal(wantSavings))

	metrics := dashboard.KeyMetrics
	assert.InDelta(t, 7.5, metrics.InventoryTurnover, 1e-9) // 6000 t/year over 800 t held
	assert.InDelta(t, 48, metrics.DaysInventoryOutstanding, 1e-9)
	assert.True(t, metrics.WorkingCapitalTied.Equal(decimal.NewFromFloat(800*80000.0)))

	require.NotEmpty(t, dashboard.ActionItems.Immediate)
	assert.Contains(t, dashboard.ActionItems.Immediate[0], "250 tons")
	assert.NotEmpty(t, dashboard.ActionItems.Strategic)
	assert.Equal(t, audit, dashboard.ModelAudit)
}

func TestDashboardOmitsAuditWhenClean(t *testing.T) {
	service := NewDashboardService(testLogger())
	panel := statPanel(400, 22)

	dashboard := service.Build("run-2", panel, timingBundle(80000, flatForecast(30, 80000)),
		nil, defaultParams(),
		&models.EOQResult{OptimalQuantityTons: 250},
		&models.TimingResult{Action: models.TimingBuyImmediately},
		&models.SupplierResult{},
		&models.HedgeResult{Strategy: models.HedgeNone},
		map[string]string{})

	assert.Nil(t, dashboard.ModelAudit)
	assert.Empty(t, dashboard.Summary.BestSupplier)
	assert.Empty(t, dashboard.Summary.KeyCausalDrivers)
}
