package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Trend fits an ordinary least squares regression of the series against its
// positional index plus any exogenous feature columns, using QR
// factorization. The fitted line extrapolates to positions beyond the
// training range.
type Trend struct {
	intercept float64
	coef      []float64
	fitted    bool
}

func NewTrend() *Trend {
	return &Trend{}
}

func (tr *Trend) Clone() Forecaster {
	return NewTrend()
}

func (tr *Trend) Fit(y []float64, x [][]float64, horizon int) error {
	if len(y) == 0 {
		return ErrNoTrainingData
	}
	m := len(y)
	nFeat := 2
	if len(x) > 0 {
		if len(x) < m {
			return fmt.Errorf("got %d exogenous rows for %d training points, %w", len(x), m, ErrExogenousRange)
		}
		nFeat += len(x[0])
	}

	design := mat.NewDense(m, nFeat, nil)
	for i := 0; i < m; i++ {
		design.Set(i, 0, 1.0)
		design.Set(i, 1, float64(i))
		if len(x) > 0 {
			for j, v := range x[i] {
				design.Set(i, 2+j, v)
			}
		}
	}
	yMx := mat.NewDense(1, m, y)

	qr := new(mat.QR)
	qr.Factorize(design)

	q := new(mat.Dense)
	r := new(mat.Dense)
	qr.QTo(q)
	qr.RTo(r)

	yq := new(mat.Dense)
	yq.Mul(yMx, q)

	c := make([]float64, nFeat)
	for i := nFeat - 1; i >= 0; i-- {
		c[i] = yq.At(0, i)
		for j := i + 1; j < nFeat; j++ {
			c[i] -= c[j] * r.At(i, j)
		}
		c[i] /= r.At(i, i)
	}

	tr.intercept = c[0]
	tr.coef = c[1:]
	tr.fitted = true
	return nil
}

func (tr *Trend) Predict(pos []int, x [][]float64) ([]float64, error) {
	if !tr.fitted {
		return nil, ErrNotFitted
	}
	res := make([]float64, len(pos))
	for i, p := range pos {
		val := tr.intercept + tr.coef[0]*float64(p)
		if len(tr.coef) > 1 {
			if p >= len(x) {
				return nil, fmt.Errorf("position %d outside %d exogenous rows, %w", p, len(x), ErrExogenousRange)
			}
			for j, w := range tr.coef[1:] {
				val += w * x[p][j]
			}
		}
		res[i] = val
	}
	return res, nil
}

func (tr *Trend) Intercept() float64 {
	return tr.intercept
}

func (tr *Trend) Coef() []float64 {
	c := make([]float64, len(tr.coef))
	copy(c, tr.coef)
	return c
}
