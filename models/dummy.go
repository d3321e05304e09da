package models

import (
	"fmt"

	"github.com/tsbench/go-tsbench/dataset"
)

// DummyClassifier predicts the most frequent training label for every
// instance and class prior frequencies as probabilities. It ignores the
// panel content entirely which makes it a useful floor baseline for the
// evaluation harness.
type DummyClassifier struct {
	classes []string
	priors  []float64
	mode    string
}

func NewDummyClassifier() *DummyClassifier {
	return &DummyClassifier{}
}

func (d *DummyClassifier) Clone() Classifier {
	return NewDummyClassifier()
}

func (d *DummyClassifier) Fit(x *dataset.Panel, y dataset.Table) error {
	if err := y.Validate(); err != nil {
		return fmt.Errorf("unable to fit dummy classifier, %w", err)
	}
	if x != nil && x.NumInstances() != len(y) {
		return fmt.Errorf("panel has %d instances and target has %d, %w", x.NumInstances(), len(y), ErrTargetLenMismatch)
	}

	d.classes = y.Classes()
	counts := make(map[string]int, len(d.classes))
	for _, label := range y {
		counts[label]++
	}

	d.priors = make([]float64, len(d.classes))
	var best int
	for i, class := range d.classes {
		d.priors[i] = float64(counts[class]) / float64(len(y))
		if counts[class] > counts[d.classes[best]] {
			best = i
		}
	}
	d.mode = d.classes[best]
	return nil
}

func (d *DummyClassifier) Predict(x *dataset.Panel) ([]string, error) {
	if d.mode == "" {
		return nil, ErrNotFitted
	}
	pred := make([]string, x.NumInstances())
	for i := range pred {
		pred[i] = d.mode
	}
	return pred, nil
}

func (d *DummyClassifier) PredictProba(x *dataset.Panel) ([][]float64, error) {
	if d.mode == "" {
		return nil, ErrNotFitted
	}
	proba := make([][]float64, x.NumInstances())
	for i := range proba {
		row := make([]float64, len(d.priors))
		copy(row, d.priors)
		proba[i] = row
	}
	return proba, nil
}

func (d *DummyClassifier) Classes() []string {
	classes := make([]string, len(d.classes))
	copy(classes, d.classes)
	return classes
}
