// Package split provides cross-validation splitters over panel instance
// identifiers.
package split

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

var (
	ErrTooFewSplits    = errors.New("need at least 2 splits")
	ErrTooFewInstances = errors.New("fewer instances than splits")
)

// Fold is one train/test partition expressed as positions into the instance
// id slice handed to Split.
type Fold struct {
	Train []int
	Test  []int
}

// Splitter produces a sequence of train/test folds over a set of unique
// instance ids.
type Splitter interface {
	Split(ids []string) ([]Fold, error)
}

// KFold splits instances into NumSplits consecutive folds, without shuffling
// unless Shuffle is set. Each fold serves once as the test set while the
// remaining folds form the training set. The first len(ids)%NumSplits folds
// receive one extra instance so that every instance lands in exactly one
// test set.
type KFold struct {
	NumSplits int
	Shuffle   bool
	Seed      uint64
}

func NewKFold(numSplits int) *KFold {
	return &KFold{NumSplits: numSplits}
}

func (k *KFold) Split(ids []string) ([]Fold, error) {
	if k.NumSplits < 2 {
		return nil, fmt.Errorf("got %d splits, %w", k.NumSplits, ErrTooFewSplits)
	}
	n := len(ids)
	if n < k.NumSplits {
		return nil, fmt.Errorf("got %d instances with %d splits, %w", n, k.NumSplits, ErrTooFewInstances)
	}

	order := make([]int, n)
	for i := 0; i < n; i++ {
		order[i] = i
	}
	if k.Shuffle {
		rnd := rand.New(rand.NewPCG(k.Seed, k.Seed))
		rnd.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	foldSize := n / k.NumSplits
	remainder := n % k.NumSplits

	folds := make([]Fold, 0, k.NumSplits)
	var start int
	for i := 0; i < k.NumSplits; i++ {
		size := foldSize
		if i < remainder {
			size++
		}
		test := make([]int, size)
		copy(test, order[start:start+size])

		train := make([]int, 0, n-size)
		train = append(train, order[:start]...)
		train = append(train, order[start+size:]...)

		folds = append(folds, Fold{Train: train, Test: test})
		start += size
	}
	return folds, nil
}
