package tsbench

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsbench/go-tsbench/bootstrap"
	"github.com/tsbench/go-tsbench/conformal"
	"github.com/tsbench/go-tsbench/models"
)

func noisyTrainingSeries(n int) []float64 {
	rnd := rand.New(rand.NewPCG(7, 7))
	y := make([]float64, n)
	for i := range y {
		y[i] = 10.0 + 0.1*float64(i) + rnd.NormFloat64()
	}
	return y
}

func TestNew(t *testing.T) {
	testData := map[string]struct {
		opt *Options
		err error
	}{
		"nil options": {
			nil, nil,
		},
		"median aggregation": {
			&Options{Aggregation: conformal.AggregationMedian}, nil,
		},
		"resampler adapter": {
			&Options{Resampler: bootstrap.IID{}}, nil,
		},
		"unsupported aggregation": {
			&Options{Aggregation: "mode"},
			conformal.ErrUnsupportedAggregation,
		},
		"bootstrap without indices": {
			&Options{
				Bootstrap: &bootstrap.MovingBlockBootstrap{
					NumSamples:  DefaultNumSamples,
					BlockLength: DefaultBlockLength,
				},
			},
			ErrNoBootstrapIndices,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f, err := New(td.opt)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.NotNil(t, f)
		})
	}
}

func TestForecasterFitPredict(t *testing.T) {
	testData := map[string]struct {
		aggregation string
	}{
		"mean":   {conformal.AggregationMean},
		"median": {conformal.AggregationMedian},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f, err := New(&Options{Aggregation: td.aggregation})
			require.Nil(t, err)

			n := 48
			horizon := 4
			y := make([]float64, n)
			for i := range y {
				y[i] = 5.0
			}
			require.Nil(t, f.Fit(y, nil, horizon))
			assert.Equal(t, DefaultNumSamples, f.NumMembers())

			indices := f.BootstrapIndices()
			require.Len(t, indices, DefaultNumSamples)
			for _, row := range indices {
				assert.Len(t, row, n)
			}

			res, err := f.Predict()
			require.Nil(t, err)
			assert.Equal(t, []int{48, 49, 50, 51}, res.Steps)
			require.Len(t, res.Forecast, horizon)
			for _, val := range res.Forecast {
				assert.Equal(t, 5.0, val)
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	testData := map[string]struct {
		vals        []float64
		aggregation string
		expected    float64
	}{
		"mean":                 {[]float64{1, 2, 6}, conformal.AggregationMean, 3.0},
		"median odd":           {[]float64{5, 1, 3}, conformal.AggregationMedian, 3.0},
		"median even midpoint": {[]float64{1, 3}, conformal.AggregationMedian, 2.0},
		"median even unsorted": {[]float64{9, 1, 3, 5}, conformal.AggregationMedian, 4.0},
		"median single":        {[]float64{7}, conformal.AggregationMedian, 7.0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, aggregate(td.vals, td.aggregation), 1e-12)
		})
	}
}

func TestForecasterPredictInterval(t *testing.T) {
	f, err := New(&Options{Forecaster: models.NewNaive(models.StrategyMean)})
	require.Nil(t, err)
	require.Nil(t, f.Fit(noisyTrainingSeries(64), nil, 3))

	intervals, err := f.PredictInterval(0.5, 0.9)
	require.Nil(t, err)
	assert.Equal(t, []int{64, 65, 66}, intervals.Steps)
	require.Len(t, intervals.Intervals, 2)

	narrow, exists := intervals.At(0.5)
	require.True(t, exists)
	wide, exists := intervals.At(0.9)
	require.True(t, exists)
	_, exists = intervals.At(0.8)
	assert.False(t, exists)

	// a higher coverage interval contains the lower coverage interval
	for s := range intervals.Steps {
		assert.LessOrEqual(t, wide.Lower[s], narrow.Lower[s])
		assert.LessOrEqual(t, narrow.Lower[s], narrow.Upper[s])
		assert.LessOrEqual(t, narrow.Upper[s], wide.Upper[s])
	}
}

func TestForecasterResamplerAdapter(t *testing.T) {
	f, err := New(&Options{
		Resampler:  bootstrap.IID{},
		NumSamples: 5,
	})
	require.Nil(t, err)

	require.Nil(t, f.Fit(noisyTrainingSeries(32), nil, 2))
	assert.Equal(t, 5, f.NumMembers())

	res, err := f.Predict()
	require.Nil(t, err)
	assert.Len(t, res.Forecast, 2)
}

func TestFitCopiesTrainingData(t *testing.T) {
	n := 20
	horizon := 2
	x := make([][]float64, n+horizon)
	for i := range x {
		x[i] = []float64{float64(i % 4)}
	}
	y := make([]float64, n)
	for i := range y {
		y[i] = 1.0 + 0.5*float64(i) + 2.0*x[i][0]
	}

	f, err := New(&Options{Forecaster: models.NewTrend()})
	require.Nil(t, err)
	require.Nil(t, f.Fit(y, x, horizon))

	want, err := f.Predict()
	require.Nil(t, err)
	wantIntervals, err := f.PredictInterval(0.9)
	require.Nil(t, err)

	// mutating the caller's slices after Fit must not change the
	// fitted state
	for i := range x {
		x[i][0] = -100.0
	}
	y[0] = 1e9

	got, err := f.Predict()
	require.Nil(t, err)
	assert.Equal(t, want, got)

	gotIntervals, err := f.PredictInterval(0.9)
	require.Nil(t, err)
	assert.Equal(t, wantIntervals, gotIntervals)
}

func TestForecasterErrors(t *testing.T) {
	testData := map[string]struct {
		run func(f *Forecaster) error
		err error
	}{
		"fit empty series": {
			func(f *Forecaster) error { return f.Fit(nil, nil, 3) },
			ErrNoTrainingData,
		},
		"fit zero horizon": {
			func(f *Forecaster) error { return f.Fit([]float64{1, 2, 3}, nil, 0) },
			ErrNoHorizon,
		},
		"predict before fit": {
			func(f *Forecaster) error {
				_, err := f.Predict()
				return err
			},
			ErrNotFitted,
		},
		"interval before fit": {
			func(f *Forecaster) error {
				_, err := f.PredictInterval(0.9)
				return err
			},
			ErrNotFitted,
		},
		"interval without coverage": {
			func(f *Forecaster) error {
				_, err := f.PredictInterval()
				return err
			},
			ErrNoCoverage,
		},
		"interval coverage out of range": {
			func(f *Forecaster) error {
				_, err := f.PredictInterval(1.2)
				return err
			},
			ErrCoverageRange,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f, err := New(nil)
			require.Nil(t, err)
			assert.ErrorIs(t, td.run(f), td.err)
		})
	}
}
