// Package tsbench provides a bootstrap-ensemble conformal forecaster and,
// in its evaluate subpackage, a cross-validated evaluation harness for time
// series classifiers.
package tsbench

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tsbench/go-tsbench/bootstrap"
	"github.com/tsbench/go-tsbench/conformal"
	"github.com/tsbench/go-tsbench/models"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNoBootstrapIndices = errors.New("bootstrap transformer cannot return provenance indices")
	ErrNotFitted          = errors.New("forecaster is not fitted")
	ErrNoTrainingData     = errors.New("no training data")
	ErrNoHorizon          = errors.New("horizon must be positive")
	ErrNoCoverage         = errors.New("at least one coverage level is required")
	ErrCoverageRange      = errors.New("coverage must be in (0, 1)")
)

// Forecaster fits N clones of a base forecaster to N bootstrap resamples of
// the training series and forecasts by aggregating the ensemble. Prediction
// intervals come from a conformal interval routine fed with the bootstrap
// provenance indices, the ensemble's in-sample predictions, and the
// original targets.
type Forecaster struct {
	opt        *Options
	intervaler conformal.Intervaler

	forecasters []models.Forecaster
	indices     [][]int
	trainPreds  [][]float64

	fitY    []float64
	fitX    [][]float64
	horizon int
}

// New creates a new instance of a Forecaster using the provided options. If
// no options are provided a default is used. An unsupported aggregation or
// a bootstrap transformer that cannot return provenance indices fails here,
// before any fitting occurs.
func New(opt *Options) (*Forecaster, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if opt.Forecaster == nil {
		opt.Forecaster = models.NewNaive(models.StrategyLast)
	}
	if opt.Aggregation == "" {
		opt.Aggregation = conformal.AggregationMean
	}
	if opt.Bootstrap == nil {
		if opt.Resampler != nil {
			numSamples := opt.NumSamples
			if numSamples < 1 {
				numSamples = DefaultNumSamples
			}
			opt.Bootstrap = bootstrap.NewAdapter(opt.Resampler, numSamples)
		} else {
			opt.Bootstrap = bootstrap.NewMovingBlockBootstrap(DefaultNumSamples, DefaultBlockLength)
		}
	}
	if !opt.Bootstrap.ReturnsIndices() {
		return nil, fmt.Errorf("%T, %w", opt.Bootstrap, ErrNoBootstrapIndices)
	}

	intervaler := opt.Intervaler
	if intervaler == nil {
		enbpi, err := conformal.NewEnbPI(opt.Aggregation)
		if err != nil {
			return nil, fmt.Errorf("unable to initialize conformal intervaler, %w", err)
		}
		intervaler = enbpi
	} else if _, err := conformal.NewEnbPI(opt.Aggregation); err != nil {
		// aggregation is still used for point forecasts
		return nil, err
	}

	return &Forecaster{
		opt:        opt,
		intervaler: intervaler,
	}, nil
}

// Fit resamples the training series with the bootstrap transformer, fits
// one base forecaster clone per resample, and retains each clone's
// predictions across the full original index range. The number of fitted
// clones, provenance index rows, and in-sample prediction rows always
// match.
func (f *Forecaster) Fit(y []float64, x [][]float64, horizon int) error {
	if len(y) == 0 {
		return ErrNoTrainingData
	}
	if horizon < 1 {
		return fmt.Errorf("got %d, %w", horizon, ErrNoHorizon)
	}

	samples, err := f.opt.Bootstrap.FitTransform(y)
	if err != nil {
		return fmt.Errorf("unable to generate bootstrap samples, %w", err)
	}

	n := len(y)
	fullRange := make([]int, n)
	for i := 0; i < n; i++ {
		fullRange[i] = i
	}

	forecasters := make([]models.Forecaster, 0, len(samples))
	indices := make([][]int, 0, len(samples))
	trainPreds := make([][]float64, 0, len(samples))
	for _, sample := range samples {
		if sample.Indices == nil {
			return fmt.Errorf("bootstrap sample %d has no indices, %w", sample.ID, ErrNoBootstrapIndices)
		}

		clone := f.opt.Forecaster.Clone()
		if err := clone.Fit(sample.Values, x, horizon); err != nil {
			return fmt.Errorf("unable to fit ensemble member %d, %w", sample.ID, err)
		}
		pred, err := clone.Predict(fullRange, x)
		if err != nil {
			return fmt.Errorf("unable to get in-sample predictions from member %d, %w", sample.ID, err)
		}

		forecasters = append(forecasters, clone)
		indices = append(indices, sample.Indices)
		trainPreds = append(trainPreds, pred)
	}

	f.forecasters = forecasters
	f.indices = indices
	f.trainPreds = trainPreds
	f.fitY = make([]float64, n)
	copy(f.fitY, y)
	f.fitX = nil
	if x != nil {
		f.fitX = make([][]float64, len(x))
		for i, row := range x {
			f.fitX[i] = make([]float64, len(row))
			copy(f.fitX[i], row)
		}
	}
	f.horizon = horizon
	return nil
}

// Predict aggregates every ensemble member's forecast over the fitted
// horizon into one point forecast per step.
func (f *Forecaster) Predict() (*Results, error) {
	preds, steps, err := f.memberPredictions()
	if err != nil {
		return nil, err
	}

	forecast := make([]float64, len(steps))
	column := make([]float64, len(preds))
	for s := range steps {
		for b, pred := range preds {
			column[b] = pred[s]
		}
		forecast[s] = aggregate(column, f.opt.Aggregation)
	}

	return &Results{
		Steps:    steps,
		Forecast: forecast,
	}, nil
}

// PredictInterval computes conformal prediction intervals at every
// requested coverage level. Intervals are recomputed from the ensemble
// state on every call and are monotone in coverage: a higher coverage
// interval contains every lower coverage interval.
func (f *Forecaster) PredictInterval(coverages ...float64) (*IntervalResults, error) {
	if len(coverages) == 0 {
		return nil, ErrNoCoverage
	}
	for _, c := range coverages {
		if c <= 0.0 || c >= 1.0 {
			return nil, fmt.Errorf("got %f, %w", c, ErrCoverageRange)
		}
	}

	preds, steps, err := f.memberPredictions()
	if err != nil {
		return nil, err
	}

	intervals := make([]CoverageInterval, 0, len(coverages))
	for _, coverage := range coverages {
		bounds, err := f.intervaler.ConformalInterval(f.indices, f.trainPreds, preds, f.fitY, 1.0-coverage)
		if err != nil {
			return nil, fmt.Errorf("unable to compute conformal interval at coverage %f, %w", coverage, err)
		}

		lower := make([]float64, len(bounds))
		upper := make([]float64, len(bounds))
		for s, b := range bounds {
			lower[s] = b[0]
			upper[s] = b[1]
		}
		intervals = append(intervals, CoverageInterval{
			Coverage: coverage,
			Lower:    lower,
			Upper:    upper,
		})
	}

	return &IntervalResults{
		Steps:     steps,
		Intervals: intervals,
	}, nil
}

// NumMembers returns the number of fitted ensemble members.
func (f *Forecaster) NumMembers() int {
	return len(f.forecasters)
}

// BootstrapIndices returns the provenance index matrix created at fit time.
func (f *Forecaster) BootstrapIndices() [][]int {
	return f.indices
}

func (f *Forecaster) memberPredictions() ([][]float64, []int, error) {
	if len(f.forecasters) == 0 {
		return nil, nil, ErrNotFitted
	}

	n := len(f.fitY)
	steps := make([]int, f.horizon)
	for i := 0; i < f.horizon; i++ {
		steps[i] = n + i
	}

	preds := make([][]float64, 0, len(f.forecasters))
	for b, member := range f.forecasters {
		pred, err := member.Predict(steps, f.fitX)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to predict with ensemble member %d, %w", b, err)
		}
		preds = append(preds, pred)
	}
	return preds, steps, nil
}

func aggregate(vals []float64, aggregation string) float64 {
	if aggregation == conformal.AggregationMedian {
		return median(vals)
	}
	return stat.Mean(vals, nil)
}

// median takes the midpoint of the two middle values on even lengths.
func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2.0
	}
	return sorted[n/2]
}
