package models

import "time"

// RawRow is a single uploaded observation before cleaning. Covariate values
// are keyed by column name; missing or non-finite values are permitted and
// handled by the panel preparer.
type RawRow struct {
	Date       time.Time          `json:"date"`
	Target     float64            `json:"target"`
	Covariates map[string]float64 `json:"covariates,omitempty"`
}

// PricePanel is the cleaned, rectangular, gap-free multivariate history the
// statistical stages run on. Dates are strictly increasing with no
// duplicates and every target price is positive. A panel is immutable once
// built; re-uploads produce a new panel.
type PricePanel struct {
	Dates          []time.Time `json:"dates"`
	Target         []float64   `json:"target"`
	CovariateNames []string    `json:"covariate_names"`
	// Covariates is column-major: Covariates[i] is the full series for
	// CovariateNames[i], aligned with Dates.
	Covariates [][]float64 `json:"covariates"`
}

// Rows reports the number of observations.
func (p *PricePanel) Rows() int { return len(p.Dates) }

// LastPrice returns the most recent target price, or 0 for an empty panel.
func (p *PricePanel) LastPrice() float64 {
	if len(p.Target) == 0 {
		return 0
	}
	return p.Target[len(p.Target)-1]
}

// LastDate returns the most recent observation date.
func (p *PricePanel) LastDate() time.Time {
	if len(p.Dates) == 0 {
		return time.Time{}
	}
	return p.Dates[len(p.Dates)-1]
}

// Covariate returns the series for the named covariate and whether it exists.
func (p *PricePanel) Covariate(name string) ([]float64, bool) {
	for i, n := range p.CovariateNames {
		if n == name {
			return p.Covariates[i], true
		}
	}
	return nil, false
}
