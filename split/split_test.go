package split

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKFoldSplit(t *testing.T) {
	testData := map[string]struct {
		numSplits    int
		numInstances int
		err          error
		testSizes    []int
	}{
		"even": {
			numSplits:    3,
			numInstances: 9,
			testSizes:    []int{3, 3, 3},
		},
		"remainder spread over leading folds": {
			numSplits:    3,
			numInstances: 10,
			testSizes:    []int{4, 3, 3},
		},
		"too few splits": {
			numSplits:    1,
			numInstances: 10,
			err:          ErrTooFewSplits,
		},
		"fewer instances than splits": {
			numSplits:    5,
			numInstances: 3,
			err:          ErrTooFewInstances,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			ids := make([]string, td.numInstances)
			for i := range ids {
				ids[i] = fmt.Sprintf("inst_%d", i)
			}

			folds, err := NewKFold(td.numSplits).Split(ids)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			require.Len(t, folds, td.numSplits)

			seen := make(map[int]int)
			for i, fold := range folds {
				assert.Len(t, fold.Test, td.testSizes[i])
				assert.Len(t, fold.Train, td.numInstances-td.testSizes[i])
				for _, pos := range fold.Test {
					seen[pos]++
				}

				// train and test are disjoint within a fold
				train := make(map[int]struct{}, len(fold.Train))
				for _, pos := range fold.Train {
					train[pos] = struct{}{}
				}
				for _, pos := range fold.Test {
					_, exists := train[pos]
					assert.False(t, exists)
				}
			}

			// every instance lands in exactly one test fold
			require.Len(t, seen, td.numInstances)
			for _, cnt := range seen {
				assert.Equal(t, 1, cnt)
			}
		})
	}
}

func TestKFoldConsecutiveWithoutShuffle(t *testing.T) {
	folds, err := NewKFold(2).Split([]string{"a", "b", "c", "d"})
	require.Nil(t, err)

	assert.Equal(t, []int{0, 1}, folds[0].Test)
	assert.Equal(t, []int{2, 3}, folds[0].Train)
	assert.Equal(t, []int{2, 3}, folds[1].Test)
	assert.Equal(t, []int{0, 1}, folds[1].Train)
}

func TestKFoldShuffleDeterministic(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e", "f"}

	k1 := &KFold{NumSplits: 3, Shuffle: true, Seed: 7}
	k2 := &KFold{NumSplits: 3, Shuffle: true, Seed: 7}

	folds1, err := k1.Split(ids)
	require.Nil(t, err)
	folds2, err := k2.Split(ids)
	require.Nil(t, err)
	assert.Equal(t, folds1, folds2)
}
