package econometrics

import (
	"math"
)

// GARCHModel is a GARCH(1,1) conditional-variance model fit on a return
// series: sigma2_t = omega + alpha*r_{t-1}^2 + beta*sigma2_{t-1}.
type GARCHModel struct {
	omega, alpha, beta float64
	lastReturn         float64
	lastVariance       float64
	logLikelihood      float64
}

// FitGARCH estimates GARCH(1,1) parameters by maximizing the Gaussian
// log-likelihood over a grid of (alpha, beta) pairs with omega pinned by
// variance targeting. Coarse but robust: it cannot diverge and never
// produces a non-stationary parameter set.
func FitGARCH(returns []float64) (*GARCHModel, error) {
	n := len(returns)
	if n < 50 {
		return nil, ErrInsufficientObservations
	}

	var sum, sumSq float64
	for _, r := range returns {
		sum += r
		sumSq += r * r
	}
	mean := sum / float64(n)
	uncond := sumSq/float64(n) - mean*mean
	if uncond <= 0 {
		return nil, ErrInsufficientObservations
	}

	var best *GARCHModel
	bestLL := math.Inf(-1)
	for alpha := 0.02; alpha <= 0.30; alpha += 0.02 {
		for beta := 0.50; beta <= 0.97; beta += 0.01 {
			if alpha+beta >= 0.999 {
				continue
			}
			omega := uncond * (1 - alpha - beta)
			ll, lastVar, ok := garchLogLikelihood(returns, omega, alpha, beta, uncond)
			if !ok {
				continue
			}
			if ll > bestLL {
				bestLL = ll
				best = &GARCHModel{
					omega:         omega,
					alpha:         alpha,
					beta:          beta,
					lastReturn:    returns[n-1],
					lastVariance:  lastVar,
					logLikelihood: ll,
				}
			}
		}
	}
	if best == nil {
		return nil, ErrInsufficientObservations
	}
	return best, nil
}

func garchLogLikelihood(returns []float64, omega, alpha, beta, initVar float64) (ll, lastVar float64, ok bool) {
	variance := initVar
	for t := 0; t < len(returns); t++ {
		if t > 0 {
			variance = omega + alpha*returns[t-1]*returns[t-1] + beta*variance
		}
		if variance <= 0 || math.IsNaN(variance) || math.IsInf(variance, 0) {
			return 0, 0, false
		}
		ll += -0.5 * (math.Log(2*math.Pi) + math.Log(variance) + returns[t]*returns[t]/variance)
	}
	return ll, variance, true
}

// Parameters returns the fitted (omega, alpha, beta).
func (m *GARCHModel) Parameters() (omega, alpha, beta float64) {
	return m.omega, m.alpha, m.beta
}

// LogLikelihood reports the Gaussian log-likelihood at the fitted parameters.
func (m *GARCHModel) LogLikelihood() float64 { return m.logLikelihood }

// Forecast returns the forward conditional variance path. The one-step
// forecast conditions on the last observed return; further steps decay
// toward the unconditional variance at rate alpha+beta.
func (m *GARCHModel) Forecast(horizon int) []float64 {
	if horizon <= 0 {
		return nil
	}
	out := make([]float64, horizon)
	variance := m.omega + m.alpha*m.lastReturn*m.lastReturn + m.beta*m.lastVariance
	out[0] = variance
	for step := 1; step < horizon; step++ {
		variance = m.omega + (m.alpha+m.beta)*variance
		out[step] = variance
	}
	return out
}
