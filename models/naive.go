package models

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

const (
	StrategyLast = "last"
	StrategyMean = "mean"
)

// Naive forecasts a constant level for every requested position, either the
// last training value or the training mean depending on the strategy.
type Naive struct {
	Strategy string

	level  float64
	fitted bool
}

func NewNaive(strategy string) *Naive {
	if strategy == "" {
		strategy = StrategyLast
	}
	return &Naive{Strategy: strategy}
}

func (n *Naive) Clone() Forecaster {
	return NewNaive(n.Strategy)
}

func (n *Naive) Fit(y []float64, x [][]float64, horizon int) error {
	if len(y) == 0 {
		return ErrNoTrainingData
	}
	switch n.Strategy {
	case StrategyLast:
		n.level = y[len(y)-1]
	case StrategyMean:
		n.level = stat.Mean(y, nil)
	default:
		return fmt.Errorf("naive strategy %q, %w", n.Strategy, ErrUnknownStrategy)
	}
	n.fitted = true
	return nil
}

func (n *Naive) Predict(pos []int, x [][]float64) ([]float64, error) {
	if !n.fitted {
		return nil, ErrNotFitted
	}
	res := make([]float64, len(pos))
	for i := range res {
		res[i] = n.level
	}
	return res, nil
}
