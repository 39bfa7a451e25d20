package services

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/models"
)

const (
	practicalMinOrderTons = 50
	eoqGridPoints         = 20
)

// EOQService computes the order-quantity recommendation: the classic EOQ as
// a reference point, then a grid search over the storage-feasible range for
// the quantity with the lowest total annual cost.
type EOQService struct {
	logger *logrus.Logger
	costs  models.CostStructure
}

func NewEOQService(logger *logrus.Logger, costs models.CostStructure) *EOQService {
	return &EOQService{logger: logger, costs: costs}
}

// Optimize returns InfeasibleStorageError when the minimum practical order
// does not fit into the remaining storage capacity.
func (s *EOQService) Optimize(params models.BusinessParameters, currentPrice float64) (*models.EOQResult, error) {
	annualDemand := params.MonthlyConsumptionTons * 12
	holdingPerTonYear := currentPrice * s.costs.HoldingCostRateMonthly * 12

	basicEOQ := math.Sqrt(2 * annualDemand * s.costs.OrderingCost / holdingPerTonYear)

	minOrder := math.Max(practicalMinOrderTons, params.SafetyStockTons())
	maxOrder := params.MaxStorageCapacityTons - params.CurrentInventoryTons
	if minOrder > maxOrder {
		return nil, &models.InfeasibleStorageError{
			MinOrderTons:         minOrder,
			MaxOrderTons:         maxOrder,
			CurrentInventoryTons: params.CurrentInventoryTons,
			StorageCapacityTons:  params.MaxStorageCapacityTons,
		}
	}

	// Unconstrained minimizer of the full annual cost, including storage and
	// insurance on top of the plain holding rate. Evaluating its clamp into
	// the feasible range keeps the selection stable as the range widens: the
	// grid alone re-spreads with the bounds and can skip past the optimum.
	perTonYear := holdingPerTonYear + s.costs.StorageCostPerTonMonth*12 + currentPrice*s.costs.InsuranceRate
	fullEOQ := math.Sqrt(2 * annualDemand * s.costs.OrderingCost / perTonYear)
	candidates := make([]float64, 0, eoqGridPoints+1)
	candidates = append(candidates, math.Min(math.Max(fullEOQ, minOrder), maxOrder))
	step := (maxOrder - minOrder) / float64(eoqGridPoints-1)
	for i := 0; i < eoqGridPoints; i++ {
		candidates = append(candidates, minOrder+float64(i)*step)
	}

	bestQty := minOrder
	bestTotal := math.Inf(1)
	var bestBreakdown models.EOQCostBreakdown
	for _, qty := range candidates {
		breakdown := s.annualCost(qty, annualDemand, holdingPerTonYear, currentPrice)
		total := breakdown.Ordering + breakdown.Holding + breakdown.Storage + breakdown.Insurance
		if total < bestTotal {
			bestTotal = total
			bestQty = qty
			bestBreakdown = breakdown
		}
	}

	frequency := annualDemand / bestQty
	result := &models.EOQResult{
		BasicEOQTons:          basicEOQ,
		OptimalQuantityTons:   bestQty,
		OptimalAnnualCost:     bestTotal,
		CostBreakdown:         bestBreakdown,
		OrderFrequencyPerYear: frequency,
		DaysBetweenOrders:     365 / frequency,
		MinOrderTons:          minOrder,
		MaxOrderTons:          maxOrder,
	}

	s.logger.WithFields(logrus.Fields{
		"basic_eoq_tons":   basicEOQ,
		"optimal_qty_tons": bestQty,
		"annual_cost":      bestTotal,
		"orders_per_year":  frequency,
	}).Info("Order quantity optimized")

	return result, nil
}

func (s *EOQService) annualCost(qty, annualDemand, holdingPerTonYear, price float64) models.EOQCostBreakdown {
	avgInventory := qty / 2
	return models.EOQCostBreakdown{
		Ordering:  annualDemand / qty * s.costs.OrderingCost,
		Holding:   avgInventory * holdingPerTonYear,
		Storage:   avgInventory * s.costs.StorageCostPerTonMonth * 12,
		Insurance: avgInventory * price * s.costs.InsuranceRate,
	}
}
