package models

import "fmt"

// BusinessParameters describe the buyer's consumption and storage situation
// for one optimization run. They are validated at the parameter-setting
// boundary; invalid parameters never reach the optimizer.
type BusinessParameters struct {
	MonthlyConsumptionTons float64 `json:"monthly_consumption_tons"`
	CurrentInventoryTons   float64 `json:"current_inventory_tons"`
	SafetyStockDays        float64 `json:"safety_stock_days"`
	MaxStorageCapacityTons float64 `json:"max_storage_capacity_tons"`
}

// Validate enforces the documented parameter invariants.
func (p BusinessParameters) Validate() error {
	if p.MonthlyConsumptionTons <= 0 {
		return fmt.Errorf("monthly consumption must be positive, got %.2f", p.MonthlyConsumptionTons)
	}
	if p.CurrentInventoryTons < 0 {
		return fmt.Errorf("current inventory cannot be negative, got %.2f", p.CurrentInventoryTons)
	}
	if p.SafetyStockDays < 0 {
		return fmt.Errorf("safety stock days cannot be negative, got %.2f", p.SafetyStockDays)
	}
	if p.MaxStorageCapacityTons < p.CurrentInventoryTons {
		return fmt.Errorf("storage capacity %.2f t is below current inventory %.2f t",
			p.MaxStorageCapacityTons, p.CurrentInventoryTons)
	}
	return nil
}

// DailyConsumptionTons derives the daily draw from monthly consumption.
func (p BusinessParameters) DailyConsumptionTons() float64 {
	return p.MonthlyConsumptionTons / 30
}

// SafetyStockTons converts the safety stock from days of cover to tons.
func (p BusinessParameters) SafetyStockTons() float64 {
	return p.DailyConsumptionTons() * p.SafetyStockDays
}

// ReorderPointTons is the inventory level that should trigger a new order:
// safety stock plus a 15-day lead-time buffer of consumption.
func (p BusinessParameters) ReorderPointTons() float64 {
	return p.DailyConsumptionTons() * (p.SafetyStockDays + 15)
}

// CostStructure holds the procurement cost model. Rates are monthly or
// annual as named; values are configurable with defaults matching the
// documented cost assumptions.
type CostStructure struct {
	HoldingCostRateMonthly float64 `json:"holding_cost_rate_monthly" mapstructure:"holding_cost_rate_monthly"`
	OrderingCost           float64 `json:"ordering_cost" mapstructure:"ordering_cost"`
	WorkingCapitalRate     float64 `json:"working_capital_rate" mapstructure:"working_capital_rate"`
	TransportCostPerTon    float64 `json:"transport_cost_per_ton" mapstructure:"transport_cost_per_ton"`
	StorageCostPerTonMonth float64 `json:"storage_cost_per_ton_month" mapstructure:"storage_cost_per_ton_month"`
	InsuranceRate          float64 `json:"insurance_rate" mapstructure:"insurance_rate"`
}

// DefaultCostStructure returns the standard cost assumptions.
func DefaultCostStructure() CostStructure {
	return CostStructure{
		HoldingCostRateMonthly: 0.02,
		OrderingCost:           25000,
		WorkingCapitalRate:     0.12,
		TransportCostPerTon:    2000,
		StorageCostPerTonMonth: 500,
		InsuranceRate:          0.005,
	}
}
