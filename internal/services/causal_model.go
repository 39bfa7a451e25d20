package services

import (
	"github.com/sirupsen/logrus"

	"github.com/oleotrade/pfad-procurement/internal/models"
	"github.com/oleotrade/pfad-procurement/pkg/econometrics"
)

// CausalFit bundles the three independent model fits of the causal stage.
// Each fit can fail on its own; a nil model with a non-empty error string
// means that sub-result is unavailable for this run.
type CausalFit struct {
	VAR        *econometrics.VARModel
	VARErr     string
	Findings   []models.CausalFinding
	GARCH      *econometrics.GARCHModel
	GARCHErr   string
	Covariates []string
}

// CausalModelService fits the multivariate price model: a VAR over the
// target and a capped set of covariates, Granger causality tests against the
// target, and a GARCH(1,1) volatility model on target returns.
type CausalModelService struct {
	logger        *logrus.Logger
	maxCovariates int
	maxLag        int
}

func NewCausalModelService(logger *logrus.Logger, maxCovariates, maxLag int) *CausalModelService {
	return &CausalModelService{
		logger:        logger,
		maxCovariates: maxCovariates,
		maxLag:        maxLag,
	}
}

// Fit runs the three sub-fits. The covariate set is the first N covariates in
// panel order; callers who want different drivers in the model reorder the
// upload.
func (s *CausalModelService) Fit(panel *models.PricePanel) *CausalFit {
	selected := panel.CovariateNames
	if len(selected) > s.maxCovariates {
		selected = selected[:s.maxCovariates]
		s.logger.WithFields(logrus.Fields{
			"selected": selected,
			"dropped":  len(panel.CovariateNames) - s.maxCovariates,
		}).Info("Capped covariate set for VAR tractability")
	}

	fit := &CausalFit{Covariates: append([]string(nil), selected...)}

	columns := make([][]float64, 0, 1+len(selected))
	names := make([]string, 0, 1+len(selected))
	columns = append(columns, panel.Target)
	names = append(names, "target")
	for _, name := range selected {
		col, _ := panel.Covariate(name)
		columns = append(columns, col)
		names = append(names, name)
	}

	maxLag := s.maxLag
	if byObs := panel.Rows() / 10; byObs < maxLag {
		maxLag = byObs
	}
	if maxLag < 1 {
		maxLag = 1
	}

	varModel, err := econometrics.FitVAR(columns, names, maxLag)
	if err != nil {
		fit.VARErr = err.Error()
		s.logger.WithError(err).Warn("VAR fit failed, forecast will degrade")
	} else {
		fit.VAR = varModel
		s.logger.WithFields(logrus.Fields{
			"lag": varModel.SelectedLag(),
			"aic": varModel.AIC(),
		}).Info("VAR model fitted")
	}

	fit.Findings = s.causality(fit.VAR, selected)

	returns := pctReturns(panel.Target)
	for i := range returns {
		returns[i] *= 100
	}
	garchModel, err := econometrics.FitGARCH(returns)
	if err != nil {
		fit.GARCHErr = err.Error()
		s.logger.WithError(err).Warn("GARCH fit failed, volatility path unavailable")
	} else {
		fit.GARCH = garchModel
	}

	return fit
}

func (s *CausalModelService) causality(varModel *econometrics.VARModel, covariates []string) []models.CausalFinding {
	findings := make([]models.CausalFinding, 0, len(covariates))
	for _, name := range covariates {
		finding := models.CausalFinding{Covariate: name, Tier: models.TierNone}
		if varModel == nil {
			finding.Err = "var model unavailable"
			findings = append(findings, finding)
			continue
		}
		fStat, pValue, err := varModel.CausalityTest("target", name)
		if err != nil {
			finding.Err = err.Error()
			s.logger.WithError(err).WithField("covariate", name).Warn("Granger causality test failed")
			findings = append(findings, finding)
			continue
		}
		finding.FStatistic = fStat
		finding.PValue = pValue
		finding.IsCausal = pValue < 0.05
		finding.Tier = models.TierForPValue(pValue)
		findings = append(findings, finding)
	}
	return findings
}
