package tsbench

import (
	"github.com/tsbench/go-tsbench/bootstrap"
	"github.com/tsbench/go-tsbench/conformal"
	"github.com/tsbench/go-tsbench/models"
)

const (
	DefaultNumSamples  = 10
	DefaultBlockLength = 10
)

// Options configures the ensemble conformal forecaster.
type Options struct {
	// Forecaster is the base forecaster template cloned for every
	// bootstrap sample. Defaults to the last-value naive forecaster.
	Forecaster models.Forecaster

	// Bootstrap generates the resamples and must be able to return
	// provenance indices. Defaults to a moving block bootstrap.
	Bootstrap bootstrap.Transformer

	// Resampler, when set and no Bootstrap is given, is wrapped in a
	// bootstrap.Adapter producing NumSamples resamples with indices.
	Resampler  bootstrap.Resampler
	NumSamples int

	// Aggregation reduces member forecasts to the point forecast,
	// either mean or median.
	Aggregation string

	// Intervaler computes the conformal intervals. Defaults to EnbPI
	// with the configured aggregation.
	Intervaler conformal.Intervaler
}

func NewDefaultOptions() *Options {
	return &Options{
		Forecaster:  models.NewNaive(models.StrategyLast),
		Bootstrap:   bootstrap.NewMovingBlockBootstrap(DefaultNumSamples, DefaultBlockLength),
		Aggregation: conformal.AggregationMean,
	}
}
