package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EOQCostBreakdown itemizes the annual cost at the chosen order quantity.
type EOQCostBreakdown struct {
	Ordering  float64 `json:"ordering"`
	Holding   float64 `json:"holding"`
	Storage   float64 `json:"storage"`
	Insurance float64 `json:"insurance"`
}

// EOQResult is the order-quantity recommendation.
type EOQResult struct {
	BasicEOQTons          float64          `json:"basic_eoq_tons"`
	OptimalQuantityTons   float64          `json:"optimal_quantity_tons"`
	OptimalAnnualCost     float64          `json:"optimal_annual_cost"`
	CostBreakdown         EOQCostBreakdown `json:"cost_breakdown"`
	OrderFrequencyPerYear float64          `json:"order_frequency_per_year"`
	DaysBetweenOrders     float64          `json:"days_between_orders"`
	MinOrderTons          float64          `json:"min_order_tons"`
	MaxOrderTons          float64          `json:"max_order_tons"`
}

// TimingAction is the purchase-timing recommendation.
type TimingAction string

const (
	TimingBuyImmediately TimingAction = "buy_immediately"
	TimingWaitOptimal    TimingAction = "wait_optimal"
	TimingWaitLowest     TimingAction = "wait_lowest"
)

// TimingScenario describes one purchase scenario over the forecast horizon.
type TimingScenario struct {
	Day           int       `json:"day"`
	Date          time.Time `json:"date"`
	Price         float64   `json:"price"`
	SavingsPerTon float64   `json:"savings_per_ton"`
	TotalSavings  float64   `json:"total_savings"`
	Risk          string    `json:"risk"`
}

// TimingResult is the purchase-timing recommendation with its supporting
// scenario table.
type TimingResult struct {
	Action          TimingAction   `json:"action"`
	RecommendedDay  int            `json:"recommended_day"`
	RecommendedDate time.Time      `json:"recommended_date"`
	ExpectedPrice   float64        `json:"expected_price"`
	TotalSavings    float64        `json:"total_savings"`
	Rationale       string         `json:"rationale"`
	PriceTrend      string         `json:"price_trend"`
	Volatility      float64        `json:"volatility"`
	Immediate       TimingScenario `json:"immediate"`
	Optimal         TimingScenario `json:"optimal"`
	Lowest          TimingScenario `json:"lowest"`
}

// SupplierEvaluation is the total-cost-of-ownership assessment of one
// supplier at the recommended order quantity.
type SupplierEvaluation struct {
	Name               string  `json:"name"`
	AdjustedPrice      float64 `json:"adjusted_price"`
	ProcurementCost    float64 `json:"procurement_cost"`
	TransportCost      float64 `json:"transport_cost"`
	WorkingCapitalCost float64 `json:"working_capital_cost"`
	RiskPremium        float64 `json:"risk_premium"`
	QualityAdjustment  float64 `json:"quality_adjustment"`
	TotalCost          float64 `json:"total_cost"`
	CostPerTon         float64 `json:"cost_per_ton"`
	DeliveryScore      float64 `json:"delivery_score"`
	OverallScore       float64 `json:"overall_score"`
}

// SupplierResult ranks the configured suppliers; an empty reference set
// yields an empty ranking and no recommendation.
type SupplierResult struct {
	Evaluations []SupplierEvaluation `json:"evaluations"`
	Ranking     []string             `json:"ranking"`
	Recommended string               `json:"recommended,omitempty"`
	CostSpread  float64              `json:"cost_spread"`
}

// HedgeStrategy is one of the four discrete hedging strategies.
type HedgeStrategy string

const (
	HedgeNone    HedgeStrategy = "no_hedge"
	HedgeHalf    HedgeStrategy = "partial_hedge_50"
	HedgeFull    HedgeStrategy = "full_hedge"
	HedgeDynamic HedgeStrategy = "dynamic_hedge"
)

// HedgeResult is the hedging recommendation with its risk metrics.
type HedgeResult struct {
	Strategy            HedgeStrategy `json:"strategy"`
	HedgeRatio          float64       `json:"hedge_ratio"`
	HedgeQuantityTons   float64       `json:"hedge_quantity_tons"`
	HedgingCost         float64       `json:"hedging_cost"`
	RiskReduction       float64       `json:"risk_reduction"`
	Volatility          float64       `json:"volatility"`
	ValueAtRisk95       float64       `json:"value_at_risk_95"`
	ExpectedShortfall99 float64       `json:"expected_shortfall_99"`
	MaxLoss             float64       `json:"max_loss"`
	Rationale           string        `json:"rationale"`
}

// DashboardSummary carries the executive-level scalars. Monetary figures are
// decimals at this presentation boundary; optimizer arithmetic stays float64.
type DashboardSummary struct {
	CurrentInventoryDays        float64         `json:"current_inventory_days"`
	RecommendedOrderQuantity    float64         `json:"recommended_order_quantity"`
	OptimalTiming               TimingAction    `json:"optimal_timing"`
	BestSupplier                string          `json:"best_supplier,omitempty"`
	HedgingRecommendation       HedgeStrategy   `json:"hedging_recommendation"`
	TotalMonthlyProcurementCost decimal.Decimal `json:"total_monthly_procurement_cost"`
	EstimatedMonthlySavings     decimal.Decimal `json:"estimated_monthly_savings"`
	MarketTrend                 string          `json:"market_trend"`
	KeyCausalDrivers            []string        `json:"key_causal_drivers,omitempty"`
}

// KeyMetrics are derived inventory and capital figures.
type KeyMetrics struct {
	InventoryTurnover        float64         `json:"inventory_turnover"`
	DaysInventoryOutstanding float64         `json:"days_inventory_outstanding"`
	WorkingCapitalTied       decimal.Decimal `json:"working_capital_tied"`
}

// ActionItems split the recommendations into what to do now and standing
// strategic guidance.
type ActionItems struct {
	Immediate []string `json:"immediate"`
	Strategic []string `json:"strategic"`
}

// DecisionDashboard is the sole handoff to the presentation layer. It is
// recomputed wholesale on every optimization run, never partially updated.
type DecisionDashboard struct {
	RunID        string            `json:"run_id"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Horizon      int               `json:"horizon"`
	CurrentPrice float64           `json:"current_price"`
	EOQ          EOQResult         `json:"eoq"`
	Timing       TimingResult      `json:"timing"`
	Suppliers    SupplierResult    `json:"suppliers"`
	Hedging      HedgeResult       `json:"hedging"`
	Summary      DashboardSummary  `json:"summary"`
	KeyMetrics   KeyMetrics        `json:"key_metrics"`
	ActionItems  ActionItems       `json:"action_items"`
	// ModelAudit retains every recovered model failure verbatim so degraded
	// forecast quality stays visible to auditors.
	ModelAudit map[string]string `json:"model_audit,omitempty"`
}
