// Package econometrics implements the statistical models consumed by the
// procurement analysis pipeline: unit-root and cointegration tests, vector
// autoregression with Granger causality, univariate autoregression and
// GARCH(1,1) volatility modelling. All estimators are ordinary least squares
// on gonum matrices; every entry point returns an error on numerical failure
// so callers can degrade gracefully instead of aborting.
package econometrics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrInsufficientObservations is returned when a series is too short for the
// requested model.
var ErrInsufficientObservations = errors.New("econometrics: insufficient observations")

// olsSolve computes B minimizing ||Y - X*B||_F. It tries the normal
// equations first and falls back to SVD-based least squares when X'X is
// singular or badly conditioned.
func olsSolve(x, y *mat.Dense) (*mat.Dense, error) {
	_, m := x.Dims()
	_, k := y.Dims()

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var b mat.Dense
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err == nil {
		var xty mat.Dense
		xty.Mul(x.T(), y)
		b.Mul(&xtxInv, &xty)
		return &b, nil
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, fmt.Errorf("econometrics: SVD factorization failed")
	}
	rank := svd.Rank(1e-12)
	if rank == 0 {
		return mat.NewDense(m, k, nil), nil
	}
	svd.SolveTo(&b, y, rank)
	return &b, nil
}

// residualSumSquares returns sum of squared elements of y - x*beta for a
// single-equation regression.
func residualSumSquares(x *mat.Dense, beta *mat.VecDense, y *mat.VecDense) float64 {
	var fitted mat.VecDense
	fitted.MulVec(x, beta)

	var resid mat.VecDense
	resid.SubVec(y, &fitted)
	return mat.Dot(&resid, &resid)
}

// diff returns the first differences of a series.
func diff(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}
	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = series[i] - series[i-1]
	}
	return out
}

// interpolatePValue maps a test statistic onto a p-value by linear
// interpolation over tabulated distribution quantiles. Quantiles must be
// ordered by ascending probability with statistics ascending as well (left
// tail tests). Statistics beyond the table are clamped to the boundary
// probabilities.
func interpolatePValue(stat float64, probs, quantiles []float64) float64 {
	if stat <= quantiles[0] {
		return probs[0]
	}
	last := len(quantiles) - 1
	if stat >= quantiles[last] {
		return probs[last]
	}
	for i := 1; i <= last; i++ {
		if stat <= quantiles[i] {
			frac := (stat - quantiles[i-1]) / (quantiles[i] - quantiles[i-1])
			return probs[i-1] + frac*(probs[i]-probs[i-1])
		}
	}
	return probs[last]
}
