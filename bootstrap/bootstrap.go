// Package bootstrap generates bootstrap resamples of univariate series
// along with the provenance indices mapping each resampled point back to its
// original position. Provenance indices are what the conformal interval
// computation keys on, so transformers advertise the capability explicitly.
package bootstrap

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrEmptySeries   = errors.New("no series to resample")
	ErrNoSamples     = errors.New("must produce at least one bootstrap sample")
	ErrBlockLength   = errors.New("block length must be positive")
	ErrBlockTooLarge = errors.New("block length exceeds series length")
)

// Sample is one bootstrap resample of a series. Indices holds the original
// position each resampled point was drawn from and is nil when the
// transformer is not returning indices.
type Sample struct {
	ID      int
	Values  []float64
	Indices []int
}

// Transformer generates bootstrap resamples of a series. ReturnsIndices
// reports whether FitTransform populates provenance indices on its samples.
type Transformer interface {
	FitTransform(y []float64) ([]Sample, error)
	ReturnsIndices() bool
}

// MovingBlockBootstrap resamples contiguous blocks of the series with
// replacement until each sample reaches the original series length.
type MovingBlockBootstrap struct {
	NumSamples    int
	BlockLength   int
	ReturnIndices bool
	Seed          uint64
}

func NewMovingBlockBootstrap(numSamples, blockLength int) *MovingBlockBootstrap {
	return &MovingBlockBootstrap{
		NumSamples:    numSamples,
		BlockLength:   blockLength,
		ReturnIndices: true,
	}
}

func (m *MovingBlockBootstrap) ReturnsIndices() bool {
	return m.ReturnIndices
}

func (m *MovingBlockBootstrap) FitTransform(y []float64) ([]Sample, error) {
	if len(y) == 0 {
		return nil, ErrEmptySeries
	}
	if m.NumSamples < 1 {
		return nil, fmt.Errorf("got %d samples, %w", m.NumSamples, ErrNoSamples)
	}
	if m.BlockLength < 1 {
		return nil, fmt.Errorf("got block length %d, %w", m.BlockLength, ErrBlockLength)
	}
	if m.BlockLength > len(y) {
		return nil, fmt.Errorf("block length %d with series length %d, %w", m.BlockLength, len(y), ErrBlockTooLarge)
	}

	rnd := rand.New(rand.NewPCG(m.Seed, m.Seed))
	n := len(y)

	samples := make([]Sample, 0, m.NumSamples)
	for b := 0; b < m.NumSamples; b++ {
		values := make([]float64, 0, n)
		indices := make([]int, 0, n)
		for len(values) < n {
			start := rnd.IntN(n - m.BlockLength + 1)
			for i := start; i < start+m.BlockLength && len(values) < n; i++ {
				values = append(values, y[i])
				indices = append(indices, i)
			}
		}
		if !m.ReturnIndices {
			indices = nil
		}
		samples = append(samples, Sample{ID: b, Values: values, Indices: indices})
	}
	return samples, nil
}

// Resampler is the minimal surface of a third-party bootstrap generator: a
// single resample of the series with the positions each point was drawn
// from.
type Resampler interface {
	Resample(rnd *rand.Rand, y []float64) (values []float64, indices []int)
}

// Adapter lifts a bare Resampler into a Transformer that always returns
// provenance indices.
type Adapter struct {
	Resampler  Resampler
	NumSamples int
	Seed       uint64
}

func NewAdapter(r Resampler, numSamples int) *Adapter {
	return &Adapter{Resampler: r, NumSamples: numSamples}
}

func (a *Adapter) ReturnsIndices() bool {
	return a.Resampler != nil
}

func (a *Adapter) FitTransform(y []float64) ([]Sample, error) {
	if len(y) == 0 {
		return nil, ErrEmptySeries
	}
	if a.NumSamples < 1 {
		return nil, fmt.Errorf("got %d samples, %w", a.NumSamples, ErrNoSamples)
	}

	rnd := rand.New(rand.NewPCG(a.Seed, a.Seed))
	samples := make([]Sample, 0, a.NumSamples)
	for b := 0; b < a.NumSamples; b++ {
		values, indices := a.Resampler.Resample(rnd, y)
		samples = append(samples, Sample{ID: b, Values: values, Indices: indices})
	}
	return samples, nil
}

// IID draws every point independently with replacement. Mostly useful as a
// Resampler to exercise the Adapter.
type IID struct{}

func (IID) Resample(rnd *rand.Rand, y []float64) ([]float64, []int) {
	values := make([]float64, len(y))
	indices := make([]int, len(y))
	for i := range y {
		j := rnd.IntN(len(y))
		values[i] = y[j]
		indices[i] = j
	}
	return values, indices
}
