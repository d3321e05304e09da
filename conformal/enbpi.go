// Package conformal computes conformal prediction intervals from the state
// of a bootstrap ensemble. The interval routine sits behind the narrow
// Intervaler interface so the ensemble forecaster does not depend on any
// particular algorithm.
package conformal

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrUnsupportedAggregation = errors.New("unsupported aggregation function")
	ErrNoEnsemble             = errors.New("no ensemble predictions")
	ErrShapeMismatch          = errors.New("ensemble matrix shapes do not agree")
	ErrErrorRate              = errors.New("error rate must be in (0, 1)")
)

const (
	AggregationMean   = "mean"
	AggregationMedian = "median"
)

// Intervaler computes a (lower, upper) interval per forecast step from the
// bootstrap provenance matrix, the ensemble's in-sample and out-of-sample
// predictions, the original training targets, and a target error rate.
type Intervaler interface {
	ConformalInterval(
		bootstrapIndices [][]int,
		trainPreds, testPreds [][]float64,
		trainTargets []float64,
		errorRate float64,
	) ([][2]float64, error)
}

// EnbPI implements the ensemble bootstrap prediction interval algorithm of
// Xu & Xie. Each training point is scored with a leave-one-out aggregate
// over the ensemble members whose bootstrap sample never drew that point,
// and the interval half-width is the (1 - errorRate) empirical quantile of
// the resulting absolute residuals.
type EnbPI struct {
	aggregation string
}

func NewEnbPI(aggregation string) (*EnbPI, error) {
	switch aggregation {
	case AggregationMean, AggregationMedian:
	default:
		return nil, fmt.Errorf("aggregation %q, %w", aggregation, ErrUnsupportedAggregation)
	}
	return &EnbPI{aggregation: aggregation}, nil
}

func (e *EnbPI) ConformalInterval(
	bootstrapIndices [][]int,
	trainPreds, testPreds [][]float64,
	trainTargets []float64,
	errorRate float64,
) ([][2]float64, error) {
	numMembers := len(trainPreds)
	if numMembers == 0 {
		return nil, ErrNoEnsemble
	}
	if len(bootstrapIndices) != numMembers || len(testPreds) != numMembers {
		return nil, fmt.Errorf(
			"got %d index rows and %d test prediction rows for %d members, %w",
			len(bootstrapIndices), len(testPreds), numMembers, ErrShapeMismatch,
		)
	}
	n := len(trainTargets)
	for b := 0; b < numMembers; b++ {
		if len(trainPreds[b]) != n {
			return nil, fmt.Errorf("member %d has %d in-sample predictions for %d targets, %w", b, len(trainPreds[b]), n, ErrShapeMismatch)
		}
	}
	if errorRate <= 0.0 || errorRate >= 1.0 {
		return nil, fmt.Errorf("got %f, %w", errorRate, ErrErrorRate)
	}
	horizon := len(testPreds[0])

	drawn := make([]map[int]struct{}, numMembers)
	for b, indices := range bootstrapIndices {
		drawn[b] = make(map[int]struct{}, len(indices))
		for _, idx := range indices {
			drawn[b][idx] = struct{}{}
		}
	}

	residuals := make([]float64, 0, n)
	centerSamples := make([][]float64, horizon)
	for s := range centerSamples {
		centerSamples[s] = make([]float64, 0, n)
	}

	looTrain := make([]float64, 0, numMembers)
	looTest := make([]float64, 0, numMembers)
	for t := 0; t < n; t++ {
		excluded := func(b int) bool {
			_, drew := drawn[b][t]
			return drew
		}
		looTrain = looTrain[:0]
		for b := 0; b < numMembers; b++ {
			if excluded(b) {
				continue
			}
			looTrain = append(looTrain, trainPreds[b][t])
		}
		// fall back to the full ensemble when every member drew this point
		if len(looTrain) == 0 {
			excluded = func(int) bool { return false }
			for b := 0; b < numMembers; b++ {
				looTrain = append(looTrain, trainPreds[b][t])
			}
		}
		residuals = append(residuals, math.Abs(trainTargets[t]-e.aggregate(looTrain)))

		for s := 0; s < horizon; s++ {
			looTest = looTest[:0]
			for b := 0; b < numMembers; b++ {
				if excluded(b) {
					continue
				}
				looTest = append(looTest, testPreds[b][s])
			}
			centerSamples[s] = append(centerSamples[s], e.aggregate(looTest))
		}
	}

	sort.Float64s(residuals)
	width := stat.Quantile(1.0-errorRate, stat.Empirical, residuals, nil)

	intervals := make([][2]float64, horizon)
	for s := 0; s < horizon; s++ {
		center := e.aggregate(centerSamples[s])
		intervals[s] = [2]float64{center - width, center + width}
	}
	return intervals, nil
}

func (e *EnbPI) aggregate(vals []float64) float64 {
	if e.aggregation == AggregationMedian {
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
