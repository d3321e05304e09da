// Package evaluate benchmarks time series classifiers with cross-validation,
// producing one row of timings and scores per train/test fold.
package evaluate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

var (
	ErrMetricNotCallable = errors.New("scoring metric is not callable")
)

// PredictionType is the closed set of prediction methods a metric can
// consume. Dispatch onto a classifier goes through capability interfaces
// keyed by this enum rather than any runtime name lookup.
type PredictionType int

const (
	TypePoint PredictionType = iota
	TypeProba
	TypeQuantiles
)

func (pt PredictionType) String() string {
	switch pt {
	case TypeProba:
		return "pred_proba"
	case TypeQuantiles:
		return "pred_quantiles"
	default:
		return "pred"
	}
}

// predictionTypes fixes the iteration order of classified metrics so that
// the column schema is deterministic.
var predictionTypes = []PredictionType{TypePoint, TypeProba, TypeQuantiles}

// Metric names a scoring function. Concrete metrics additionally implement
// one of PointMetric, ProbaMetric, or QuantileMetric.
type Metric interface {
	Name() string
}

// PointMetric scores label predictions against true labels.
type PointMetric interface {
	Metric
	Score(yTrue, yPred []string) float64
}

// ProbaMetric scores a per-class probability matrix against true labels.
// The classes slice orders the probability columns.
type ProbaMetric interface {
	Metric
	ScoreProba(yTrue, classes []string, proba [][]float64) float64
}

// QuantileMetric scores a per-instance quantile prediction at its Alpha
// level against true labels.
type QuantileMetric interface {
	Metric
	Alpha() float64
	ScoreQuantiles(yTrue []string, yPred []float64) float64
}

// probaMetricNames is the known set of probability-based metric names,
// matched before any further inspection.
var probaMetricNames = map[string]struct{}{
	"log_loss":         {},
	"brier_score_loss": {},
	"roc_auc_score":    {},
}

// scorer is one classified metric with its resolved prediction type and,
// for quantile metrics, the alpha variant that qualifies its column names.
type scorer struct {
	name      string
	ptype     PredictionType
	alpha     float64
	hasAlpha  bool
	point     func(yTrue, yPred []string) float64
	proba     func(yTrue, classes []string, proba [][]float64) float64
	quantiles func(yTrue []string, yPred []float64) float64
}

// keys derives the prediction-time, score, and cached-prediction column
// names for this scorer, qualified by the alpha variant when present.
func (s scorer) keys() (timeKey, resultKey, predKey string) {
	suffix := ""
	if s.hasAlpha {
		suffix = "_" + strconv.FormatFloat(s.alpha, 'g', -1, 64)
	}
	timeKey = s.ptype.String() + suffix + "_time"
	resultKey = "test_" + s.name + suffix
	predKey = "y_" + s.ptype.String() + suffix
	return timeKey, resultKey, predKey
}

type classification map[PredictionType][]scorer

// classifyMetrics validates the supplied scoring values and groups them by
// the prediction type they consume. Classification order, first match wins:
// exact name match against the known probability-metric set, capability
// interface or func signature inspection, and finally a trial invocation
// with a two-class label vector and a two-row probability matrix. A value
// fitting none of these fails with ErrMetricNotCallable.
func classifyMetrics(scoring []any) (classification, error) {
	if len(scoring) == 0 {
		scoring = []any{Accuracy{}}
	}

	classified := make(classification)
	for _, m := range scoring {
		sc, err := classifyMetric(m)
		if err != nil {
			return nil, err
		}
		classified[sc.ptype] = append(classified[sc.ptype], sc)
	}
	return classified, nil
}

func classifyMetric(m any) (scorer, error) {
	if named, ok := m.(Metric); ok {
		if _, probaName := probaMetricNames[named.Name()]; probaName {
			pm, ok := m.(ProbaMetric)
			if !ok {
				return scorer{}, fmt.Errorf("metric %q is named as a probability metric but has no ScoreProba, %w", named.Name(), ErrMetricNotCallable)
			}
			return scorer{name: pm.Name(), ptype: TypeProba, proba: pm.ScoreProba}, nil
		}
	}

	switch mm := m.(type) {
	case ProbaMetric:
		return scorer{name: mm.Name(), ptype: TypeProba, proba: mm.ScoreProba}, nil
	case QuantileMetric:
		return scorer{
			name:      mm.Name(),
			ptype:     TypeQuantiles,
			alpha:     mm.Alpha(),
			hasAlpha:  true,
			quantiles: mm.ScoreQuantiles,
		}, nil
	case PointMetric:
		return scorer{name: mm.Name(), ptype: TypePoint, point: mm.Score}, nil
	case func(yTrue, yPred []string) float64:
		return scorer{name: funcName(m), ptype: TypePoint, point: mm}, nil
	case func(yTrue, classes []string, proba [][]float64) float64:
		return scorer{name: funcName(m), ptype: TypeProba, proba: mm}, nil
	}

	return trialClassify(m)
}

// trialClassify probes an untyped func by invoking it with sample inputs,
// mirroring how an unknown callable is classified by calling it. Panics from
// incompatible shapes are treated as a failed trial.
func trialClassify(m any) (scorer, error) {
	v := reflect.ValueOf(m)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return scorer{}, fmt.Errorf("got %T, %w", m, ErrMetricNotCallable)
	}
	t := v.Type()
	if t.NumIn() != 2 || t.NumOut() != 1 || t.Out(0).Kind() != reflect.Float64 {
		return scorer{}, fmt.Errorf("got %T, %w", m, ErrMetricNotCallable)
	}

	yTrue := []string{"0", "1"}
	proba := [][]float64{{0.8, 0.2}, {0.3, 0.7}}

	if tryCall(v, reflect.ValueOf(yTrue), reflect.ValueOf(proba)) {
		return scorer{
			name:  funcName(m),
			ptype: TypeProba,
			proba: func(yTrue, classes []string, p [][]float64) float64 {
				return v.Call([]reflect.Value{reflect.ValueOf(yTrue), reflect.ValueOf(p)})[0].Float()
			},
		}, nil
	}
	if tryCall(v, reflect.ValueOf(yTrue), reflect.ValueOf([]string{"0", "1"})) {
		return scorer{
			name:  funcName(m),
			ptype: TypePoint,
			point: func(yTrue, yPred []string) float64 {
				return v.Call([]reflect.Value{reflect.ValueOf(yTrue), reflect.ValueOf(yPred)})[0].Float()
			},
		}, nil
	}
	return scorer{}, fmt.Errorf("got %T, %w", m, ErrMetricNotCallable)
}

func tryCall(v reflect.Value, args ...reflect.Value) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	t := v.Type()
	for i, arg := range args {
		if !arg.Type().AssignableTo(t.In(i)) {
			return false
		}
	}
	v.Call(args)
	return true
}

func funcName(m any) string {
	v := reflect.ValueOf(m)
	if v.Kind() == reflect.Func {
		if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
			name := fn.Name()
			if i := strings.LastIndex(name, "."); i >= 0 {
				name = name[i+1:]
			}
			return strings.TrimSuffix(name, "-fm")
		}
	}
	return fmt.Sprintf("%T", m)
}

// Accuracy is the fraction of predicted labels matching the true labels.
type Accuracy struct{}

func (Accuracy) Name() string { return "accuracy" }

func (Accuracy) Score(yTrue, yPred []string) float64 {
	if len(yTrue) == 0 {
		return math.NaN()
	}
	var correct float64
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return correct / float64(len(yTrue))
}

// LogLoss is the mean negative log likelihood of the true labels under the
// predicted class probabilities. Probabilities are clamped away from 0 and 1
// to keep the loss finite.
type LogLoss struct{}

func (LogLoss) Name() string { return "log_loss" }

func (LogLoss) ScoreProba(yTrue, classes []string, proba [][]float64) float64 {
	if len(yTrue) == 0 {
		return math.NaN()
	}
	classPos := make(map[string]int, len(classes))
	for i, class := range classes {
		classPos[class] = i
	}

	const eps = 1e-15
	var total float64
	for i, label := range yTrue {
		p := eps
		if c, exists := classPos[label]; exists {
			p = math.Min(math.Max(proba[i][c], eps), 1.0-eps)
		}
		total -= math.Log(p)
	}
	return total / float64(len(yTrue))
}

// BrierScore is the mean squared difference between the predicted class
// probabilities and the one-hot encoding of the true labels.
type BrierScore struct{}

func (BrierScore) Name() string { return "brier_score_loss" }

func (BrierScore) ScoreProba(yTrue, classes []string, proba [][]float64) float64 {
	if len(yTrue) == 0 {
		return math.NaN()
	}
	classPos := make(map[string]int, len(classes))
	for i, class := range classes {
		classPos[class] = i
	}

	var total float64
	for i, label := range yTrue {
		for c := range classes {
			target := 0.0
			if classPos[label] == c {
				target = 1.0
			}
			diff := proba[i][c] - target
			total += diff * diff
		}
	}
	return total / float64(len(yTrue))
}

// PinballLoss scores a predicted alpha-quantile against numeric true labels.
// Labels that do not parse as floats contribute NaN.
type PinballLoss struct {
	AlphaLevel float64
}

func (PinballLoss) Name() string { return "pinball_loss" }

func (p PinballLoss) Alpha() float64 { return p.AlphaLevel }

func (p PinballLoss) ScoreQuantiles(yTrue []string, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return math.NaN()
	}
	var total float64
	for i, label := range yTrue {
		truth, err := strconv.ParseFloat(label, 64)
		if err != nil {
			return math.NaN()
		}
		diff := truth - yPred[i]
		if diff >= 0 {
			total += p.AlphaLevel * diff
		} else {
			total += (p.AlphaLevel - 1.0) * diff
		}
	}
	return total / float64(len(yTrue))
}
