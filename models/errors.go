package models

import (
	"errors"
)

var (
	ErrNotFitted         = errors.New("estimator is not fitted")
	ErrNoTrainingData    = errors.New("no training data")
	ErrTargetLenMismatch = errors.New("target length does not match panel instances")
	ErrExogenousRange    = errors.New("exogenous features do not cover the requested positions")
	ErrUnknownStrategy   = errors.New("unknown strategy")
)
