package econometrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Tabulated asymptotic quantiles of the Dickey-Fuller tau distribution for a
// regression with constant (tau_mu). Interpolation between points is linear;
// the 1%/5%/10% entries match the published critical values exactly, which is
// what the classification thresholds depend on.
var (
	adfProbs     = []float64{0.001, 0.01, 0.025, 0.05, 0.10, 0.25, 0.50, 0.75, 0.90, 0.95, 0.975, 0.99}
	adfQuantiles = []float64{-4.32, -3.43, -3.12, -2.86, -2.57, -2.13, -1.57, -0.94, -0.44, -0.07, 0.23, 0.60}
)

// ADFTest runs an augmented Dickey-Fuller unit-root test with constant. The
// augmentation lag is chosen by AIC over 0..maxADFLag(n). The null hypothesis
// is that the series has a unit root; small p-values indicate stationarity.
func ADFTest(series []float64) (stat, pValue float64, err error) {
	n := len(series)
	if n < 20 {
		return 0, 0, ErrInsufficientObservations
	}

	maxLag := int(math.Floor(12 * math.Pow(float64(n)/100, 0.25)))
	if maxLag > n/2-2 {
		maxLag = n/2 - 2
	}
	if maxLag < 0 {
		maxLag = 0
	}

	bestAIC := math.Inf(1)
	bestStat := math.NaN()
	found := false
	for lag := 0; lag <= maxLag; lag++ {
		tau, aic, fitErr := adfRegression(series, lag)
		if fitErr != nil {
			continue
		}
		if aic < bestAIC {
			bestAIC = aic
			bestStat = tau
			found = true
		}
	}
	if !found {
		return 0, 0, ErrInsufficientObservations
	}

	return bestStat, interpolatePValue(bestStat, adfProbs, adfQuantiles), nil
}

// adfRegression fits dy_t = c + gamma*y_{t-1} + sum_j b_j*dy_{t-j} + e_t and
// returns the t-statistic on gamma together with the regression AIC.
func adfRegression(series []float64, lag int) (tau, aic float64, err error) {
	dy := diff(series)
	nObs := len(dy) - lag
	cols := 2 + lag // constant, lagged level, lagged differences
	if nObs <= cols+1 {
		return 0, 0, ErrInsufficientObservations
	}

	x := mat.NewDense(nObs, cols, nil)
	y := mat.NewVecDense(nObs, nil)
	for t := 0; t < nObs; t++ {
		// dy index of the response within the differenced series.
		idx := t + lag
		y.SetVec(t, dy[idx])
		x.Set(t, 0, 1.0)
		x.Set(t, 1, series[idx]) // level y_{t-1}
		for j := 1; j <= lag; j++ {
			x.Set(t, 1+j, dy[idx-j])
		}
	}

	yMat := mat.NewDense(nObs, 1, nil)
	for t := 0; t < nObs; t++ {
		yMat.Set(t, 0, y.AtVec(t))
	}
	b, err := olsSolve(x, yMat)
	if err != nil {
		return 0, 0, err
	}

	beta := mat.NewVecDense(cols, nil)
	for i := 0; i < cols; i++ {
		beta.SetVec(i, b.At(i, 0))
	}
	rss := residualSumSquares(x, beta, y)
	dof := float64(nObs - cols)
	if dof <= 0 || rss <= 0 {
		return 0, 0, ErrInsufficientObservations
	}
	sigma2 := rss / dof

	// Standard error of gamma from the (X'X)^{-1} diagonal.
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xtxInv mat.Dense
	if invErr := xtxInv.Inverse(&xtx); invErr != nil {
		return 0, 0, invErr
	}
	seGamma := math.Sqrt(sigma2 * xtxInv.At(1, 1))
	if seGamma == 0 || math.IsNaN(seGamma) {
		return 0, 0, ErrInsufficientObservations
	}

	tau = b.At(1, 0) / seGamma
	aic = float64(nObs)*math.Log(rss/float64(nObs)) + 2*float64(cols)
	return tau, aic, nil
}
