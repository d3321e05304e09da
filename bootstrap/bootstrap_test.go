package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingBlockBootstrap(t *testing.T) {
	y := []float64{10, 20, 30, 40, 50, 60, 70, 80}

	m := NewMovingBlockBootstrap(5, 3)
	samples, err := m.FitTransform(y)
	require.Nil(t, err)
	require.Len(t, samples, 5)

	for i, sample := range samples {
		assert.Equal(t, i, sample.ID)
		require.Len(t, sample.Values, len(y))
		require.Len(t, sample.Indices, len(y))

		// every resampled value traces back to its original position
		for j, idx := range sample.Indices {
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, len(y))
			assert.Equal(t, y[idx], sample.Values[j])
		}
	}
}

func TestMovingBlockBootstrapDeterministic(t *testing.T) {
	y := []float64{1, 2, 3, 4, 5, 6}

	s1, err := NewMovingBlockBootstrap(3, 2).FitTransform(y)
	require.Nil(t, err)
	s2, err := NewMovingBlockBootstrap(3, 2).FitTransform(y)
	require.Nil(t, err)
	assert.Equal(t, s1, s2)
}

func TestMovingBlockBootstrapWithoutIndices(t *testing.T) {
	m := NewMovingBlockBootstrap(2, 2)
	m.ReturnIndices = false
	assert.False(t, m.ReturnsIndices())

	samples, err := m.FitTransform([]float64{1, 2, 3, 4})
	require.Nil(t, err)
	for _, sample := range samples {
		assert.Nil(t, sample.Indices)
	}
}

func TestMovingBlockBootstrapErrors(t *testing.T) {
	testData := map[string]struct {
		numSamples  int
		blockLength int
		y           []float64
		err         error
	}{
		"empty series":    {2, 2, nil, ErrEmptySeries},
		"no samples":      {0, 2, []float64{1, 2}, ErrNoSamples},
		"bad block":       {2, 0, []float64{1, 2}, ErrBlockLength},
		"block too large": {2, 5, []float64{1, 2}, ErrBlockTooLarge},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			m := NewMovingBlockBootstrap(td.numSamples, td.blockLength)
			_, err := m.FitTransform(td.y)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestAdapter(t *testing.T) {
	y := []float64{5, 6, 7, 8}

	a := NewAdapter(IID{}, 4)
	assert.True(t, a.ReturnsIndices())

	samples, err := a.FitTransform(y)
	require.Nil(t, err)
	require.Len(t, samples, 4)
	for _, sample := range samples {
		require.Len(t, sample.Values, len(y))
		require.Len(t, sample.Indices, len(y))
		for j, idx := range sample.Indices {
			assert.Equal(t, y[idx], sample.Values[j])
		}
	}
}

func TestAdapterWithoutResampler(t *testing.T) {
	a := NewAdapter(nil, 4)
	assert.False(t, a.ReturnsIndices())
}
