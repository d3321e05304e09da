package evaluate

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/tsbench/go-tsbench/dataset"
	"github.com/tsbench/go-tsbench/models"
)

var (
	ErrNoProbaSupport    = errors.New("classifier does not support probability predictions")
	ErrNoQuantileSupport = errors.New("classifier does not support quantile predictions")
)

// ProbaPrediction pairs a probability matrix with the class ordering of its
// columns. It is the cached prediction value for probability metrics and
// what a y_pred_proba column holds under return-data.
type ProbaPrediction struct {
	Classes []string    `json:"classes"`
	Proba   [][]float64 `json:"proba"`
}

// foldConfig is the shared read-only configuration for every fold of one
// evaluation run.
type foldConfig struct {
	classifier  models.Classifier
	scoring     classification
	returnData  bool
	errorScore  float64
	raiseErrors bool
	logger      zerolog.Logger
}

// foldInput is one fold's train/test slices.
type foldInput struct {
	index  int
	yTrain dataset.Table
	yTest  dataset.Table
	xTrain *dataset.Panel
	xTest  *dataset.Panel
}

// evaluateFold clones the classifier template, fits it on the training
// split, predicts once per distinct (prediction type, variant) pair with
// caching, and scores every metric against its cached prediction. It
// returns the assembled row values and the classifier clone.
//
// Errors during fit or predict propagate when the raise policy is set.
// Otherwise every metric of the fold receives the configured error score,
// all timings are left NaN, and a warning identifying the classifier, fold,
// and training size is logged.
func evaluateFold(in foldInput, cfg foldConfig) (map[string]any, models.Classifier, error) {
	row := make(map[string]any)
	fitTime := math.NaN()
	predCache := make(map[string]any)

	clone := cfg.classifier.Clone()
	err := func() error {
		start := time.Now()
		if err := clone.Fit(in.xTrain, in.yTrain); err != nil {
			return fmt.Errorf("unable to fit classifier clone, %w", err)
		}
		fitTime = time.Since(start).Seconds()

		for _, pt := range predictionTypes {
			for _, sc := range cfg.scoring[pt] {
				timeKey, resultKey, predKey := sc.keys()

				pred, cached := predCache[predKey]
				if !cached {
					start := time.Now()
					var err error
					pred, err = predictByType(clone, pt, sc, in.xTest)
					if err != nil {
						return err
					}
					row[timeKey] = time.Since(start).Seconds()
					predCache[predKey] = pred
				}

				row[resultKey] = sc.score(in.yTest, pred)
			}
		}
		return nil
	}()

	if err != nil {
		if cfg.raiseErrors {
			return nil, clone, fmt.Errorf("fold %d, %w", in.index, err)
		}
		for _, pt := range predictionTypes {
			for _, sc := range cfg.scoring[pt] {
				timeKey, resultKey, predKey := sc.keys()
				row[timeKey] = math.NaN()
				row[resultKey] = cfg.errorScore
				delete(predCache, predKey)
			}
		}
		cfg.logger.Warn().
			Err(err).
			Str("classifier", fmt.Sprintf("%T", cfg.classifier)).
			Int("fold", in.index).
			Int("train_instances", len(in.yTrain)).
			Float64("error_score", cfg.errorScore).
			Msg("classifier fit or predict failed, substituting error score")
	}

	row["fit_time"] = fitTime
	if cfg.returnData {
		row["X_train"] = in.xTrain
		row["X_test"] = in.xTest
		row["y_train"] = in.yTrain
		row["y_test"] = in.yTest
		for predKey, pred := range predCache {
			row[predKey] = pred
		}
	}
	return row, clone, nil
}

// predictByType dispatches the closed prediction-type enum onto the
// classifier's capability interfaces.
func predictByType(clf models.Classifier, pt PredictionType, sc scorer, x *dataset.Panel) (any, error) {
	switch pt {
	case TypeProba:
		pc, ok := clf.(models.ProbaClassifier)
		if !ok {
			return nil, fmt.Errorf("%T, %w", clf, ErrNoProbaSupport)
		}
		proba, err := pc.PredictProba(x)
		if err != nil {
			return nil, fmt.Errorf("unable to predict probabilities, %w", err)
		}
		return &ProbaPrediction{Classes: pc.Classes(), Proba: proba}, nil
	case TypeQuantiles:
		qp, ok := clf.(models.QuantilePredictor)
		if !ok {
			return nil, fmt.Errorf("%T, %w", clf, ErrNoQuantileSupport)
		}
		pred, err := qp.PredictQuantiles(x, sc.alpha)
		if err != nil {
			return nil, fmt.Errorf("unable to predict quantiles, %w", err)
		}
		return pred, nil
	default:
		pred, err := clf.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("unable to predict, %w", err)
		}
		return pred, nil
	}
}

// score applies the scorer to its matching cached prediction shape.
func (s scorer) score(yTrue dataset.Table, pred any) float64 {
	switch s.ptype {
	case TypeProba:
		pp := pred.(*ProbaPrediction)
		return s.proba(yTrue, pp.Classes, pp.Proba)
	case TypeQuantiles:
		return s.quantiles(yTrue, pred.([]float64))
	default:
		return s.point(yTrue, pred.([]string))
	}
}
