package models

import "fmt"

// SupplierProfile is static reference data describing one supplier.
// PricePremium is a signed fraction relative to the base market price
// (negative means a discount).
type SupplierProfile struct {
	Name             string  `json:"name" mapstructure:"name"`
	Reliability      float64 `json:"reliability" mapstructure:"reliability"`
	LeadTimeDays     float64 `json:"lead_time_days" mapstructure:"lead_time_days"`
	MinimumOrderTons float64 `json:"minimum_order_tons" mapstructure:"minimum_order_tons"`
	PricePremium     float64 `json:"price_premium" mapstructure:"price_premium"`
	PaymentTermsDays float64 `json:"payment_terms_days" mapstructure:"payment_terms_days"`
	QualityScore     float64 `json:"quality_score" mapstructure:"quality_score"`
}

// Validate enforces the documented profile ranges.
func (s SupplierProfile) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("supplier name is required")
	}
	if s.Reliability <= 0 || s.Reliability > 1 {
		return fmt.Errorf("supplier %s: reliability must be in (0,1], got %.3f", s.Name, s.Reliability)
	}
	if s.LeadTimeDays <= 0 {
		return fmt.Errorf("supplier %s: lead time must be positive, got %.1f", s.Name, s.LeadTimeDays)
	}
	if s.MinimumOrderTons < 0 {
		return fmt.Errorf("supplier %s: minimum order cannot be negative, got %.1f", s.Name, s.MinimumOrderTons)
	}
	if s.PaymentTermsDays < 0 {
		return fmt.Errorf("supplier %s: payment terms cannot be negative, got %.1f", s.Name, s.PaymentTermsDays)
	}
	if s.QualityScore <= 0 || s.QualityScore > 1 {
		return fmt.Errorf("supplier %s: quality score must be in (0,1], got %.3f", s.Name, s.QualityScore)
	}
	return nil
}
