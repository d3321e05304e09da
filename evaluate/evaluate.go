package evaluate

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/tsbench/go-tsbench/dataset"
	"github.com/tsbench/go-tsbench/models"
	"github.com/tsbench/go-tsbench/split"
)

// Options configures an evaluation run. Scoring accepts metric values or
// plain scoring funcs and defaults to accuracy. A zero ErrorScore of NaN is
// substituted for every metric of a failed fold unless RaiseErrors is set.
type Options struct {
	Scoring       []any
	ReturnData    bool
	ErrorScore    float64
	RaiseErrors   bool
	Backend       Backend
	BackendParams BackendParams
	Logger        zerolog.Logger
}

func NewDefaultOptions() *Options {
	return &Options{
		ErrorScore: math.NaN(),
		Logger:     zerolog.Nop(),
	}
}

// Evaluate benchmarks the classifier with cross-validation over the labeled
// panel, producing one result row per fold.
//
// Folds are derived by splitting the panel instance ids, and both the panel
// and the label table are sliced by the resulting positions so every
// train/test pair stays label-aligned. Each fold fits an independent
// clone of the classifier, so no state leaks across folds, and fold units
// are submitted to the configured execution backend when one is named.
// Rows always land in fold order regardless of completion order.
func Evaluate(classifier models.Classifier, cv split.Splitter, x *dataset.Panel, y dataset.Table, opt *Options) (*Results, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	cfg, inputs, schema, err := setupRun(classifier, cv, x, y, opt)
	if err != nil {
		return nil, err
	}

	rows, err := runFolds(opt, inputs, cfg)
	if err != nil {
		return nil, err
	}

	res := newResults(schema)
	for _, row := range rows {
		res.appendRow(row)
	}
	return res, nil
}

// setupRun performs all fatal validation up front: metric classification,
// panel/table shape checks, and fold derivation. The column schema is fixed
// here, before any fold work begins.
func setupRun(classifier models.Classifier, cv split.Splitter, x *dataset.Panel, y dataset.Table, opt *Options) (foldConfig, []foldInput, []Column, error) {
	scoring, err := classifyMetrics(opt.Scoring)
	if err != nil {
		return foldConfig{}, nil, nil, err
	}

	if err := y.Validate(); err != nil {
		return foldConfig{}, nil, nil, fmt.Errorf("y is not a valid target table, %w", err)
	}
	if err := x.Validate(); err != nil {
		return foldConfig{}, nil, nil, fmt.Errorf("x is not a valid panel, %w", err)
	}
	if x.NumInstances() != len(y) {
		return foldConfig{}, nil, nil, fmt.Errorf(
			"panel has %d instances and target table has %d rows, %w",
			x.NumInstances(), len(y), dataset.ErrTableLenMismatch,
		)
	}

	// a fresh default splitter per call, never a shared package-level one
	if cv == nil {
		cv = split.NewKFold(3)
	}
	folds, err := cv.Split(x.IDs)
	if err != nil {
		return foldConfig{}, nil, nil, fmt.Errorf("unable to split panel instances, %w", err)
	}

	inputs := make([]foldInput, 0, len(folds))
	for i, fold := range folds {
		// panel and labels are sliced by the same positions so they
		// stay aligned even when the splitter shuffles
		inputs = append(inputs, foldInput{
			index:  i,
			yTrain: y.Select(fold.Train),
			yTest:  y.Select(fold.Test),
			xTrain: x.Select(fold.Train),
			xTest:  x.Select(fold.Test),
		})
	}

	cfg := foldConfig{
		classifier:  classifier,
		scoring:     scoring,
		returnData:  opt.ReturnData,
		errorScore:  opt.ErrorScore,
		raiseErrors: opt.RaiseErrors,
		logger:      opt.Logger,
	}
	return cfg, inputs, columnSchema(scoring, opt.ReturnData), nil
}
