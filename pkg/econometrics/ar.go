package econometrics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ARModel is a univariate autoregression with intercept, fit on levels.
type ARModel struct {
	order     int
	intercept float64
	phi       []float64 // phi[j] multiplies y_{t-j-1}
	tail      []float64 // last `order` observations, oldest first
}

// FitAR estimates an AR(order) model by OLS.
func FitAR(series []float64, order int) (*ARModel, error) {
	if order < 1 {
		return nil, fmt.Errorf("econometrics: AR order must be positive, got %d", order)
	}
	n := len(series)
	teff := n - order
	cols := 1 + order
	if teff <= cols+1 {
		return nil, ErrInsufficientObservations
	}

	x := mat.NewDense(teff, cols, nil)
	y := mat.NewDense(teff, 1, nil)
	for t := 0; t < teff; t++ {
		y.Set(t, 0, series[t+order])
		x.Set(t, 0, 1.0)
		for j := 1; j <= order; j++ {
			x.Set(t, j, series[t+order-j])
		}
	}

	b, err := olsSolve(x, y)
	if err != nil {
		return nil, err
	}

	phi := make([]float64, order)
	for j := 0; j < order; j++ {
		phi[j] = b.At(j+1, 0)
	}
	tail := append([]float64(nil), series[n-order:]...)

	return &ARModel{
		order:     order,
		intercept: b.At(0, 0),
		phi:       phi,
		tail:      tail,
	}, nil
}

// Order reports the autoregressive order.
func (m *ARModel) Order() int { return m.order }

// Forecast projects the series forward recursively from the training tail.
func (m *ARModel) Forecast(horizon int) ([]float64, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("econometrics: horizon must be positive, got %d", horizon)
	}

	history := append([]float64(nil), m.tail...)
	out := make([]float64, horizon)
	for step := 0; step < horizon; step++ {
		val := m.intercept
		for j := 1; j <= m.order; j++ {
			val += m.phi[j-1] * history[len(history)-j]
		}
		history = append(history, val)
		out[step] = val
	}
	return out, nil
}
