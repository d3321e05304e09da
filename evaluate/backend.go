package evaluate

import (
	"errors"
	"fmt"

	"github.com/tsbench/go-tsbench/dataset"
	"github.com/tsbench/go-tsbench/models"
	"github.com/tsbench/go-tsbench/split"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownBackend = errors.New("unknown evaluation backend")

// Backend names the execution strategy for fold evaluation.
type Backend string

const (
	// BackendSequential runs folds one after another in splitter order.
	BackendSequential Backend = ""
	// BackendGoroutines fans folds out over a bounded goroutine pool.
	// Folds are independent and side-effect free, so no ordering is
	// required between them; each result is written into its fold slot.
	BackendGoroutines Backend = "goroutines"
)

// BackendParams carries free-form tuning values for the chosen backend.
// Workers bounds the goroutine pool; zero means one goroutine per fold.
type BackendParams struct {
	Workers int
}

func runFolds(opt *Options, inputs []foldInput, cfg foldConfig) ([]map[string]any, error) {
	switch opt.Backend {
	case BackendSequential:
		rows := make([]map[string]any, 0, len(inputs))
		for _, in := range inputs {
			row, _, err := evaluateFold(in, cfg)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		return rows, nil
	case BackendGoroutines:
		rows := make([]map[string]any, len(inputs))
		var g errgroup.Group
		if opt.BackendParams.Workers > 0 {
			g.SetLimit(opt.BackendParams.Workers)
		}
		for _, in := range inputs {
			g.Go(func() error {
				row, _, err := evaluateFold(in, cfg)
				if err != nil {
					return err
				}
				rows[in.index] = row
				return nil
			})
		}
		// on error outstanding folds run to completion and their rows
		// are discarded with the rest of the slice
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("backend %q, %w", opt.Backend, ErrUnknownBackend)
	}
}

// FoldResult is one fold's outcome delivered by EvaluateStream. Err is set
// only under the raise error policy.
type FoldResult struct {
	Fold    int
	Results *Results
	Err     error
}

// EvaluateStream is the lazy variant of Evaluate: instead of a fully
// materialized table it returns a channel delivering a one-row result table
// per fold as each fold completes. Validation failures are still reported
// synchronously before any fold runs. Under the raise error policy the
// stream ends after the first failed fold. The channel has fold-count
// capacity, so the producer exits even when a consumer stops receiving
// early.
func EvaluateStream(classifier models.Classifier, cv split.Splitter, x *dataset.Panel, y dataset.Table, opt *Options) (<-chan FoldResult, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	cfg, inputs, schema, err := setupRun(classifier, cv, x, y, opt)
	if err != nil {
		return nil, err
	}

	out := make(chan FoldResult, len(inputs))
	go func() {
		defer close(out)
		for _, in := range inputs {
			row, _, err := evaluateFold(in, cfg)
			if err != nil {
				out <- FoldResult{Fold: in.index, Err: err}
				return
			}
			res := newResults(schema)
			res.appendRow(row)
			out <- FoldResult{Fold: in.index, Results: res}
		}
	}()
	return out, nil
}
