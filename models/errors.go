package models

import (
	"errors"
)

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrNoTrainingMatrix   = errors.New("no training matrix")
	ErrNoTargetArray      = errors.New("no target array")
	ErrTargetLenMismatch  = errors.New("target length does not match training rows")
	ErrWeightLenMismatch  = errors.New("weight length does not match training rows")
	ErrNegativeWeight     = errors.New("negative weight")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrSingularFit        = errors.New("weighted design matrix is rank deficient")
	ErrUnknownDegree      = errors.New("unknown polynomial degree")
	ErrNotFitted          = errors.New("model has not been fit")
)
