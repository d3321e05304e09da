// Package models is a collection of estimator contracts and reference
// implementations consumed by the evaluation harness and the ensemble
// forecaster.
package models

import (
	"github.com/tsbench/go-tsbench/dataset"
)

// Classifier fits to a labeled panel of time series and predicts a label per
// instance. Clone must return an independent deep copy carrying none of the
// receiver's fitted state aliases.
type Classifier interface {
	Clone() Classifier
	Fit(x *dataset.Panel, y dataset.Table) error
	Predict(x *dataset.Panel) ([]string, error)
}

// ProbaClassifier additionally predicts per-class probabilities. Classes
// orders the columns of the probability matrix and is only valid after Fit.
type ProbaClassifier interface {
	Classifier
	Classes() []string
	PredictProba(x *dataset.Panel) ([][]float64, error)
}

// QuantilePredictor predicts a per-instance score quantile for a requested
// alpha level.
type QuantilePredictor interface {
	PredictQuantiles(x *dataset.Panel, alpha float64) ([]float64, error)
}

// Forecaster fits to a univariate series with optional exogenous features
// and predicts values at absolute positions into the training index, where
// position len(y) is the first step beyond the training range. Exogenous
// rows align with positions and must cover every requested position.
type Forecaster interface {
	Clone() Forecaster
	Fit(y []float64, x [][]float64, horizon int) error
	Predict(pos []int, x [][]float64) ([]float64, error)
}
