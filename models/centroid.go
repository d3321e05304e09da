package models

import (
	"fmt"
	"math"

	"github.com/tsbench/go-tsbench/dataset"
	"gonum.org/v1/gonum/floats"
)

// NearestCentroid classifies an instance by the euclidean distance of its
// series to the mean series of each training class.
type NearestCentroid struct {
	classes   []string
	centroids [][]float64
}

func NewNearestCentroid() *NearestCentroid {
	return &NearestCentroid{}
}

func (n *NearestCentroid) Clone() Classifier {
	return NewNearestCentroid()
}

func (n *NearestCentroid) Fit(x *dataset.Panel, y dataset.Table) error {
	if err := x.Validate(); err != nil {
		return fmt.Errorf("unable to fit nearest centroid, %w", err)
	}
	if x.NumInstances() != len(y) {
		return fmt.Errorf("panel has %d instances and target has %d, %w", x.NumInstances(), len(y), ErrTargetLenMismatch)
	}

	n.classes = y.Classes()
	classPos := make(map[string]int, len(n.classes))
	for i, class := range n.classes {
		classPos[class] = i
	}

	n.centroids = make([][]float64, len(n.classes))
	counts := make([]float64, len(n.classes))
	for i := range n.centroids {
		n.centroids[i] = make([]float64, x.SeriesLen())
	}
	for i, s := range x.Series {
		c := classPos[y[i]]
		floats.Add(n.centroids[c], s)
		counts[c]++
	}
	for i := range n.centroids {
		floats.Scale(1.0/counts[i], n.centroids[i])
	}
	return nil
}

func (n *NearestCentroid) Predict(x *dataset.Panel) ([]string, error) {
	if len(n.centroids) == 0 {
		return nil, ErrNotFitted
	}
	pred := make([]string, x.NumInstances())
	for i, s := range x.Series {
		var bestClass string
		bestDist := math.Inf(1)
		for c, centroid := range n.centroids {
			if d := floats.Distance(s, centroid, 2); d < bestDist {
				bestDist = d
				bestClass = n.classes[c]
			}
		}
		pred[i] = bestClass
	}
	return pred, nil
}

// PredictProba converts centroid distances to pseudo-probabilities with a
// softmax over negated distances.
func (n *NearestCentroid) PredictProba(x *dataset.Panel) ([][]float64, error) {
	if len(n.centroids) == 0 {
		return nil, ErrNotFitted
	}
	proba := make([][]float64, x.NumInstances())
	for i, s := range x.Series {
		row := make([]float64, len(n.centroids))
		for c, centroid := range n.centroids {
			row[c] = -floats.Distance(s, centroid, 2)
		}
		maxVal := floats.Max(row)
		var total float64
		for c := range row {
			row[c] = math.Exp(row[c] - maxVal)
			total += row[c]
		}
		floats.Scale(1.0/total, row)
		proba[i] = row
	}
	return proba, nil
}

func (n *NearestCentroid) Classes() []string {
	classes := make([]string, len(n.classes))
	copy(classes, n.classes)
	return classes
}
