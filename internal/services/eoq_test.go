package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleotrade/pfad-procurement/internal/models"
)

func defaultParams() models.BusinessParameters {
	return models.BusinessParameters{
		MonthlyConsumptionTons: 500,
		CurrentInventoryTons:   800,
		SafetyStockDays:        15,
		MaxStorageCapacityTons: 2000,
	}
}

func TestEOQOptimize(t *testing.T) {
	service := NewEOQService(testLogger(), models.DefaultCostStructure())

	result, err := service.Optimize(defaultParams(), 80000)
	require.NoError(t, err)

	// sqrt(2 * 6000 * 25000 / (80000 * 0.02 * 12)) = 125 exactly.
	assert.InDelta(t, 125, result.BasicEOQTons, 1e-9)

	assert.InDelta(t, 250, result.MinOrderTons, 1e-9) // safety stock of 15 days
	assert.InDelta(t, 1200, result.MaxOrderTons, 1e-9)

	// Annual cost is increasing across the whole feasible range here, so the
	// minimum sits at the lower bound.
	assert.InDelta(t, 250, result.OptimalQuantityTons, 1e-9)
	assert.InDelta(t, 24, result.OrderFrequencyPerYear, 1e-9)
	assert.InDelta(t, 365.0/24, result.DaysBetweenOrders, 1e-9)

	total := result.CostBreakdown.Ordering + result.CostBreakdown.Holding +
		result.CostBreakdown.Storage + result.CostBreakdown.Insurance
	assert.InDelta(t, result.OptimalAnnualCost, total, 1e-6)
}

func TestEOQInfeasibleStorage(t *testing.T) {
	service := NewEOQService(testLogger(), models.DefaultCostStructure())
	params := defaultParams()
	params.CurrentInventoryTons = 1950

	_, err := service.Optimize(params, 80000)

	var infeasible *models.InfeasibleStorageError
	require.ErrorAs(t, err, &infeasible)
	assert.InDelta(t, 250, infeasible.MinOrderTons, 1e-9)
	assert.InDelta(t, 50, infeasible.MaxOrderTons, 1e-9)
	assert.InDelta(t, 1950, infeasible.CurrentInventoryTons, 1e-9)
	assert.InDelta(t, 2000, infeasible.StorageCapacityTons, 1e-9)
}

// Extra storage capacity only relaxes the upper bound, so the optimal order
// quantity must never shrink when capacity grows.
func TestEOQStorageCapacityMonotonicity(t *testing.T) {
	service := NewEOQService(testLogger(), models.DefaultCostStructure())

	t.Run("capacity sweep", func(t *testing.T) {
		params := models.BusinessParameters{
			MonthlyConsumptionTons: 500,
		}
		prev := 0.0
		for capacity := 200.0; capacity <= 3000; capacity += 10 {
			params.MaxStorageCapacityTons = capacity
			result, err := service.Optimize(params, 80000)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, result.OptimalQuantityTons+1e-9, prev,
				"capacity %f", capacity)
			prev = result.OptimalQuantityTons
		}
	})

	t.Run("randomized parameters", func(t *testing.T) {
		rng := rand.New(rand.NewSource(23))

		for i := 0; i < 50; i++ {
			params := models.BusinessParameters{
				MonthlyConsumptionTons: 100 + rng.Float64()*900,
				CurrentInventoryTons:   rng.Float64() * 500,
				SafetyStockDays:        rng.Float64() * 20,
			}
			params.MaxStorageCapacityTons = params.CurrentInventoryTons +
				params.SafetyStockTons() + 100 + rng.Float64()*1000
			price := 50000 + rng.Float64()*50000

			narrow, err := service.Optimize(params, price)
			require.NoError(t, err)

			params.MaxStorageCapacityTons += rng.Float64() * 3000
			wide, err := service.Optimize(params, price)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, wide.OptimalQuantityTons+1e-9, narrow.OptimalQuantityTons,
				"iteration %d: capacity %f", i, params.MaxStorageCapacityTons)
		}
	})
}

// Raising the ordering cost must never shrink the optimal order quantity:
// more expensive orders favor fewer, larger ones.
func TestEOQOrderingCostMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	for i := 0; i < 50; i++ {
		params := models.BusinessParameters{
			MonthlyConsumptionTons: 100 + rng.Float64()*900,
			CurrentInventoryTons:   rng.Float64() * 500,
			SafetyStockDays:        rng.Float64() * 20,
			MaxStorageCapacityTons: 3000 + rng.Float64()*2000,
		}
		price := 50000 + rng.Float64()*50000
		costs := models.DefaultCostStructure()
		costs.OrderingCost = 5000 + rng.Float64()*20000

		lower := NewEOQService(testLogger(), costs)
		lowResult, err := lower.Optimize(params, price)
		require.NoError(t, err)

		costs.OrderingCost *= 1 + rng.Float64()*10
		higher := NewEOQService(testLogger(), costs)
		highResult, err := higher.Optimize(params, price)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, highResult.OptimalQuantityTons+1e-9, lowResult.OptimalQuantityTons,
			"iteration %d: ordering cost %f", i, costs.OrderingCost)
	}
}
