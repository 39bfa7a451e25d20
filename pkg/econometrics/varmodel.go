package econometrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// VARModel is a reduced-form vector autoregression with a constant,
// estimated equation-by-equation with OLS. The lag order is chosen by AIC at
// fit time.
type VARModel struct {
	names  []string
	lags   int
	coefs  []*mat.Dense // one K x K matrix per lag; coefs[j].At(eq, v) multiplies y_v at lag j+1
	consts *mat.VecDense
	sigmaU *mat.SymDense
	sample *mat.Dense // T x K training data, kept for forecasting and causality tests
	aic    float64
}

// FitVAR estimates a VAR on the given series (column-major: one slice per
// variable, all the same length). The lag order is selected by AIC over
// 1..maxLag. At least two variables and enough observations for the largest
// candidate system are required.
func FitVAR(columns [][]float64, names []string, maxLag int) (*VARModel, error) {
	k := len(columns)
	if k < 2 || k != len(names) {
		return nil, fmt.Errorf("econometrics: need >= 2 named series, got %d columns and %d names", k, len(names))
	}
	t := len(columns[0])
	for i, col := range columns {
		if len(col) != t {
			return nil, fmt.Errorf("econometrics: series %q has %d observations, expected %d", names[i], len(col), t)
		}
	}
	if maxLag < 1 {
		maxLag = 1
	}

	sample := mat.NewDense(t, k, nil)
	for row := 0; row < t; row++ {
		for col := 0; col < k; col++ {
			sample.Set(row, col, columns[col][row])
		}
	}

	var best *VARModel
	bestAIC := math.Inf(1)
	for p := 1; p <= maxLag; p++ {
		m, err := estimateVAR(sample, names, p)
		if err != nil {
			continue
		}
		if m.aic < bestAIC {
			bestAIC = m.aic
			best = m
		}
	}
	if best == nil {
		return nil, ErrInsufficientObservations
	}
	return best, nil
}

func estimateVAR(sample *mat.Dense, names []string, p int) (*VARModel, error) {
	t, k := sample.Dims()
	teff := t - p
	m := 1 + p*k // constant plus lag blocks
	if teff <= m+1 {
		return nil, ErrInsufficientObservations
	}

	y := mat.NewDense(teff, k, nil)
	x := mat.NewDense(teff, m, nil)
	for row := 0; row < teff; row++ {
		for col := 0; col < k; col++ {
			y.Set(row, col, sample.At(row+p, col))
		}
		x.Set(row, 0, 1.0)
		idx := 1
		for lag := 1; lag <= p; lag++ {
			for col := 0; col < k; col++ {
				x.Set(row, idx, sample.At(row+p-lag, col))
				idx++
			}
		}
	}

	b, err := olsSolve(x, y)
	if err != nil {
		return nil, err
	}

	consts := mat.NewVecDense(k, nil)
	for eq := 0; eq < k; eq++ {
		consts.SetVec(eq, b.At(0, eq))
	}
	coefs := make([]*mat.Dense, p)
	for lag := 0; lag < p; lag++ {
		a := mat.NewDense(k, k, nil)
		for eq := 0; eq < k; eq++ {
			for v := 0; v < k; v++ {
				a.Set(eq, v, b.At(1+lag*k+v, eq))
			}
		}
		coefs[lag] = a
	}

	// Residual covariance: ML version drives the AIC, the df-adjusted
	// version is stored on the model.
	var fitted mat.Dense
	fitted.Mul(x, b)
	var resid mat.Dense
	resid.Sub(y, &fitted)
	var utu mat.Dense
	utu.Mul(resid.T(), &resid)

	sigmaML := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			sigmaML.SetSym(i, j, utu.At(i, j)/float64(teff))
		}
	}
	logDet, sign := mat.LogDet(sigmaML)
	if sign <= 0 || math.IsNaN(logDet) || math.IsInf(logDet, 0) {
		return nil, fmt.Errorf("econometrics: residual covariance is not positive definite at lag %d", p)
	}
	aic := logDet + 2*float64(m*k)/float64(teff)

	df := float64(teff - m)
	if df <= 0 {
		df = float64(teff)
	}
	sigma := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			sigma.SetSym(i, j, utu.At(i, j)/df)
		}
	}

	return &VARModel{
		names:  append([]string(nil), names...),
		lags:   p,
		coefs:  coefs,
		consts: consts,
		sigmaU: sigma,
		sample: sample,
		aic:    aic,
	}, nil
}

// SelectedLag reports the AIC-selected lag order.
func (m *VARModel) SelectedLag() int { return m.lags }

// AIC reports the information criterion of the selected fit.
func (m *VARModel) AIC() float64 { return m.aic }

// Names returns the variable names in equation order.
func (m *VARModel) Names() []string { return append([]string(nil), m.names...) }

func (m *VARModel) index(name string) (int, error) {
	for i, n := range m.names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("econometrics: variable %q not in model", name)
}

// Forecast projects the system forward using the recursive VAR forecasting
// rule. The result has horizon rows, one column per variable in Names order.
func (m *VARModel) Forecast(horizon int) ([][]float64, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("econometrics: horizon must be positive, got %d", horizon)
	}
	t, k := m.sample.Dims()
	p := m.lags

	// Seed the recursion with the last p observed rows.
	history := make([][]float64, p, p+horizon)
	for i := 0; i < p; i++ {
		row := make([]float64, k)
		for j := 0; j < k; j++ {
			row[j] = m.sample.At(t-p+i, j)
		}
		history[i] = row
	}

	out := make([][]float64, horizon)
	for step := 0; step < horizon; step++ {
		row := make([]float64, k)
		for eq := 0; eq < k; eq++ {
			val := m.consts.AtVec(eq)
			for lag := 1; lag <= p; lag++ {
				prev := history[len(history)-lag]
				for v := 0; v < k; v++ {
					val += m.coefs[lag-1].At(eq, v) * prev[v]
				}
			}
			row[eq] = val
		}
		history = append(history, row)
		out[step] = row
	}
	return out, nil
}

// CausalityTest runs a Granger causality F-test of the hypothesis that the
// causing variable does not help predict the caused variable, by comparing
// the caused equation with and without the causing variable's lags.
func (m *VARModel) CausalityTest(caused, causing string) (fStat, pValue float64, err error) {
	causedIdx, err := m.index(caused)
	if err != nil {
		return 0, 0, err
	}
	causingIdx, err := m.index(causing)
	if err != nil {
		return 0, 0, err
	}
	if causedIdx == causingIdx {
		return 0, 0, fmt.Errorf("econometrics: cannot test %q against itself", caused)
	}

	t, _ := m.sample.Dims()
	p := m.lags
	teff := t - p

	rssU, mU, err := m.equationRSS(causedIdx, -1)
	if err != nil {
		return 0, 0, err
	}
	rssR, _, err := m.equationRSS(causedIdx, causingIdx)
	if err != nil {
		return 0, 0, err
	}

	q := float64(p)
	dof := float64(teff - mU)
	if dof <= 0 {
		return 0, 0, ErrInsufficientObservations
	}

	num := rssR - rssU
	if num < 0 {
		num = 0
	}
	den := rssU / dof
	if den <= 0 || num == 0 {
		return 0, 1, nil
	}
	fStat = (num / q) / den
	if math.IsNaN(fStat) || math.IsInf(fStat, 0) {
		return 0, 1, nil
	}
	fDist := distuv.F{D1: q, D2: dof}
	pValue = 1 - fDist.CDF(fStat)
	if pValue < 0 {
		pValue = 0
	}
	if pValue > 1 {
		pValue = 1
	}
	return fStat, pValue, nil
}

// equationRSS refits the single equation for variable eq with all lags
// (excluded < 0) or with the lags of variable excluded removed, and returns
// the residual sum of squares plus the regressor count.
func (m *VARModel) equationRSS(eq, excluded int) (rss float64, regressors int, err error) {
	t, k := m.sample.Dims()
	p := m.lags
	teff := t - p

	cols := 1 + p*k
	if excluded >= 0 {
		cols = 1 + p*(k-1)
	}
	if teff <= cols+1 {
		return 0, 0, ErrInsufficientObservations
	}

	x := mat.NewDense(teff, cols, nil)
	y := mat.NewVecDense(teff, nil)
	yMat := mat.NewDense(teff, 1, nil)
	for row := 0; row < teff; row++ {
		y.SetVec(row, m.sample.At(row+p, eq))
		yMat.Set(row, 0, m.sample.At(row+p, eq))
		x.Set(row, 0, 1.0)
		idx := 1
		for lag := 1; lag <= p; lag++ {
			for v := 0; v < k; v++ {
				if v == excluded {
					continue
				}
				x.Set(row, idx, m.sample.At(row+p-lag, v))
				idx++
			}
		}
	}

	b, err := olsSolve(x, yMat)
	if err != nil {
		return 0, 0, err
	}
	beta := mat.NewVecDense(cols, nil)
	for i := 0; i < cols; i++ {
		beta.SetVec(i, b.At(i, 0))
	}
	return residualSumSquares(x, beta, y), cols, nil
}
