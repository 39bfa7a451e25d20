package models

// DiagnosticResult holds the stationarity and cointegration classification
// for one series. When a test fails numerically the corresponding flag is
// false and the error text is retained for audit; a failed test never aborts
// the pipeline.
type DiagnosticResult struct {
	Series              string  `json:"series"`
	IsStationary        bool    `json:"is_stationary"`
	TestStatistic       float64 `json:"test_statistic"`
	PValue              float64 `json:"p_value"`
	IsCointegrated      bool    `json:"is_cointegrated_with_target"`
	CointegrationStat   float64 `json:"cointegration_statistic"`
	CointegrationPValue float64 `json:"cointegration_p_value"`
	StationarityError   string  `json:"stationarity_error,omitempty"`
	CointegrationError  string  `json:"cointegration_error,omitempty"`
}

// SignificanceTier classifies a Granger-causality p-value.
type SignificanceTier string

const (
	TierHigh     SignificanceTier = "high"     // p < 0.01
	TierStandard SignificanceTier = "standard" // p < 0.05
	TierMarginal SignificanceTier = "marginal" // p < 0.10
	TierNone     SignificanceTier = "none"
)

// TierForPValue maps a p-value onto its significance tier.
func TierForPValue(p float64) SignificanceTier {
	switch {
	case p < 0.01:
		return TierHigh
	case p < 0.05:
		return TierStandard
	case p < 0.10:
		return TierMarginal
	default:
		return TierNone
	}
}

// CausalFinding records the Granger-causality test of one covariate against
// the target. Findings drive the executive narrative only; covariate
// selection for the VAR is not filtered by causality.
type CausalFinding struct {
	Covariate  string           `json:"covariate"`
	FStatistic float64          `json:"f_statistic"`
	PValue     float64          `json:"p_value"`
	IsCausal   bool             `json:"is_causal"`
	Tier       SignificanceTier `json:"significance_tier"`
	Err        string           `json:"error,omitempty"`
}
