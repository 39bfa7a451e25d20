package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/models"
)

// TimingService recommends when to place the order within the forecast
// horizon. It weighs forecast price moves against the holding cost of buying
// early; the recommendation is a pure function of the forecast bundle and
// business parameters.
type TimingService struct {
	logger *logrus.Logger
	costs  models.CostStructure
}

func NewTimingService(logger *logrus.Logger, costs models.CostStructure) *TimingService {
	return &TimingService{logger: logger, costs: costs}
}

// Decide evaluates every forecast day and applies the ordered decision rule:
// wait for the best net-benefit day when it saves at least 5% within 15
// days, otherwise wait for the global price trough when it saves at least 8%
// within 30 days, otherwise buy immediately.
func (s *TimingService) Decide(bundle *models.ForecastBundle, orderQty float64) *models.TimingResult {
	price := bundle.CurrentPrice
	forecast := bundle.Ensemble
	dailyHolding := price * s.costs.HoldingCostRateMonthly / 30

	bestDay, lowestDay := 1, 1
	bestBenefit := netBenefit(price, forecast[0], 1, dailyHolding)
	lowestPrice := forecast[0]
	for t := 2; t <= len(forecast); t++ {
		f := forecast[t-1]
		if nb := netBenefit(price, f, t, dailyHolding); nb > bestBenefit {
			bestBenefit = nb
			bestDay = t
		}
		if f < lowestPrice {
			lowestPrice = f
			lowestDay = t
		}
	}
	lowestSaving := price - lowestPrice

	result := &models.TimingResult{
		PriceTrend: trendLabel(forecast, price),
		Volatility: forecastVolatility(forecast),
		Immediate:  scenario(0, bundle.BaseDate, price, 0, orderQty, "low"),
		Optimal:    scenario(bestDay, bundle.BaseDate, forecast[bestDay-1], bestBenefit, orderQty, "medium"),
		Lowest:     scenario(lowestDay, bundle.BaseDate, lowestPrice, lowestSaving, orderQty, "high"),
	}

	switch {
	case bestDay <= 15 && bestBenefit >= 0.05*price:
		result.Action = models.TimingWaitOptimal
		result.RecommendedDay = bestDay
		result.ExpectedPrice = forecast[bestDay-1]
		result.TotalSavings = bestBenefit * orderQty
		result.Rationale = fmt.Sprintf(
			"Waiting %d days saves %.1f/t net of holding costs (%.1f%% of current price)",
			bestDay, bestBenefit, bestBenefit/price*100)
	case lowestDay <= 30 && lowestSaving >= 0.08*price:
		result.Action = models.TimingWaitLowest
		result.RecommendedDay = lowestDay
		result.ExpectedPrice = lowestPrice
		result.TotalSavings = lowestSaving * orderQty
		result.Rationale = fmt.Sprintf(
			"Forecast trough on day %d is %.1f%% below current price",
			lowestDay, lowestSaving/price*100)
	default:
		result.Action = models.TimingBuyImmediately
		result.RecommendedDay = 0
		result.ExpectedPrice = price
		result.TotalSavings = 0
		result.Rationale = "No forecast dip outweighs the cost of waiting"
	}
	result.RecommendedDate = bundle.BaseDate.AddDate(0, 0, result.RecommendedDay)

	s.logger.WithFields(logrus.Fields{
		"action":          result.Action,
		"recommended_day": result.RecommendedDay,
		"price_trend":     result.PriceTrend,
	}).Info("Purchase timing decided")

	return result
}

// netBenefit is the per-ton saving of buying on day t instead of today, net
// of the holding cost avoided by waiting.
func netBenefit(price, forecastPrice float64, day int, dailyHolding float64) float64 {
	return (price - forecastPrice) - float64(day)*dailyHolding
}

func scenario(day int, base time.Time, price, savingPerTon, qty float64, risk string) models.TimingScenario {
	return models.TimingScenario{
		Day:           day,
		Date:          base.AddDate(0, 0, day),
		Price:         price,
		SavingsPerTon: savingPerTon,
		TotalSavings:  savingPerTon * qty,
		Risk:          risk,
	}
}

// trendLabel compares the near-term forecast mean against the current price
// with a 1% dead band.
func trendLabel(forecast []float64, price float64) string {
	window := forecast
	if len(window) > 7 {
		window = window[:7]
	}
	mean := meanFloat64(window)
	switch {
	case mean > price*1.01:
		return "rising"
	case mean < price*0.99:
		return "falling"
	default:
		return "stable"
	}
}

// forecastVolatility is the coefficient of variation of the forecast path.
func forecastVolatility(forecast []float64) float64 {
	mean := meanFloat64(forecast)
	if mean <= 0 {
		return 0
	}
	return stdDevFloat64(forecast) / mean
}
