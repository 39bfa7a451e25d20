package services

import (
	"fmt"
	"time"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/models"
)

// DashboardService merges the four optimizer results, the forecast and the
// causal findings into the executive dashboard. The dashboard is rebuilt
// from scratch on every run.
type DashboardService struct {
	logger *logrus.Logger
}

func NewDashboardService(logger *logrus.Logger) *DashboardService {
	return &DashboardService{logger: logger}
}

// Build assembles the dashboard for one completed run.
func (s *DashboardService) Build(
	runID string,
	panel *models.PricePanel,
	bundle *models.ForecastBundle,
	findings []models.CausalFinding,
	params models.BusinessParameters,
	eoq *models.EOQResult,
	timing *models.TimingResult,
	suppliers *models.SupplierResult,
	hedging *models.HedgeResult,
	audit map[string]string,
) *models.DecisionDashboard {
	price := bundle.CurrentPrice
	daily := params.DailyConsumptionTons()

	drivers := causalDrivers(findings)
	monthlyCost := params.MonthlyConsumptionTons * (price + supplierPremium(suppliers, price))
	monthlySavings := (timing.TotalSavings + suppliers.CostSpread) / 12

	turnover := 0.0
	if params.CurrentInventoryTons > 0 {
		turnover = params.MonthlyConsumptionTons * 12 / params.CurrentInventoryTons
	}

	dashboard := &models.DecisionDashboard{
		RunID:        runID,
		GeneratedAt:  time.Now().UTC(),
		Horizon:      bundle.Horizon,
		CurrentPrice: price,
		EOQ:          *eoq,
		Timing:       *timing,
		Suppliers:    *suppliers,
		Hedging:      *hedging,
		Summary: models.DashboardSummary{
			CurrentInventoryDays:        params.CurrentInventoryTons / daily,
			RecommendedOrderQuantity:    eoq.OptimalQuantityTons,
			OptimalTiming:               timing.Action,
			BestSupplier:                suppliers.Recommended,
			HedgingRecommendation:       hedging.Strategy,
			TotalMonthlyProcurementCost: decimal.NewFromFloat(monthlyCost).Round(2),
			EstimatedMonthlySavings:     decimal.NewFromFloat(monthlySavings).Round(2),
			MarketTrend:                 marketTrend(panel.Target),
			KeyCausalDrivers:            drivers,
		},
		KeyMetrics: models.KeyMetrics{
			InventoryTurnover:        turnover,
			DaysInventoryOutstanding: params.CurrentInventoryTons / daily,
			WorkingCapitalTied:       decimal.NewFromFloat(params.CurrentInventoryTons * price).Round(2),
		},
		ActionItems: actionItems(params, eoq, timing, suppliers, hedging),
	}
	if len(audit) > 0 {
		dashboard.ModelAudit = audit
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":        runID,
		"timing":        timing.Action,
		"order_qty":     eoq.OptimalQuantityTons,
		"best_supplier": suppliers.Recommended,
	}).Info("Decision dashboard assembled")

	return dashboard
}

// supplierPremium returns the per-ton cost uplift of the recommended
// supplier over the raw market price, or zero when no supplier is ranked.
func supplierPremium(suppliers *models.SupplierResult, price float64) float64 {
	for _, e := range suppliers.Evaluations {
		if e.Name == suppliers.Recommended {
			return e.CostPerTon - price
		}
	}
	return 0
}

// marketTrend classifies the historical price trend by comparing the short
// and long simple moving averages of the panel.
func marketTrend(prices []float64) string {
	if len(prices) < 50 {
		return "stable"
	}
	sma20 := helper.ChanToSlice(trend.NewSmaWithPeriod[float64](20).Compute(helper.SliceToChan(prices)))
	sma50 := helper.ChanToSlice(trend.NewSmaWithPeriod[float64](50).Compute(helper.SliceToChan(prices)))
	if len(sma20) == 0 || len(sma50) == 0 {
		return "stable"
	}
	short := sma20[len(sma20)-1]
	long := sma50[len(sma50)-1]
	switch {
	case short > long*1.01:
		return "rising"
	case short < long*0.99:
		return "falling"
	default:
		return "stable"
	}
}

func causalDrivers(findings []models.CausalFinding) []string {
	var drivers []string
	for _, f := range findings {
		if f.IsCausal {
			drivers = append(drivers, f.Covariate)
		}
	}
	return drivers
}

func actionItems(
	params models.BusinessParameters,
	eoq *models.EOQResult,
	timing *models.TimingResult,
	suppliers *models.SupplierResult,
	hedging *models.HedgeResult,
) models.ActionItems {
	items := models.ActionItems{}

	switch timing.Action {
	case models.TimingBuyImmediately:
		items.Immediate = append(items.Immediate,
			fmt.Sprintf("Place an order for %.0f tons now", eoq.OptimalQuantityTons))
	default:
		items.Immediate = append(items.Immediate,
			fmt.Sprintf("Schedule an order for %.0f tons on %s (day %d)",
				eoq.OptimalQuantityTons, timing.RecommendedDate.Format("2006-01-02"), timing.RecommendedDay))
	}
	if suppliers.Recommended != "" {
		items.Immediate = append(items.Immediate,
			fmt.Sprintf("Source from %s at the best total cost of ownership", suppliers.Recommended))
	}
	if hedging.Strategy != models.HedgeNone {
		items.Immediate = append(items.Immediate,
			fmt.Sprintf("Hedge %.0f tons (%s)", hedging.HedgeQuantityTons, hedging.Strategy))
	}
	if params.CurrentInventoryTons < params.ReorderPointTons() {
		items.Immediate = append(items.Immediate,
			fmt.Sprintf("Inventory %.0f t is below the reorder point of %.0f t",
				params.CurrentInventoryTons, params.ReorderPointTons()))
	}

	items.Strategic = append(items.Strategic,
		"Review supplier contracts quarterly against the cost-of-ownership ranking",
		"Maintain safety stock coverage as consumption forecasts are updated",
		"Reassess hedging policy when forecast volatility changes regime",
	)
	return items
}
