// Package loess fits locally weighted polynomial regressions. Each query
// point gets its own low degree polynomial fit over the span determined
// neighborhood of training points with tricube kernel weighting and optional
// bisquare robustness iterations to resist outliers. Query points are
// independent so batches can be evaluated serially or across a worker pool
// with identical output up to floating point summation order.
package loess

import (
	"errors"
	"fmt"
	"math"

	"github.com/aouyang1/go-loess/dataset"
	"github.com/aouyang1/go-loess/kernel"
	"github.com/aouyang1/go-loess/models"
	"github.com/aouyang1/go-loess/neighbor"
	"github.com/aouyang1/go-loess/stats"
)

var (
	ErrNotFitted          = errors.New("model is not fitted, call Fit first")
	ErrInsufficientPoints = errors.New("not enough training points for the requested degree")
	ErrNoOptionsInModel   = errors.New("no options set in model")
	ErrNonFiniteQuery     = errors.New("non-finite value in query point")
)

// Loess fits a local polynomial regression model and evaluates the smoothed
// response at arbitrary query locations.
type Loess struct {
	opt *Options

	td    *dataset.Dataset // standardized when the option is set
	orig  *dataset.Dataset
	scale *dataset.Scale

	selector *neighbor.Selector
	k        int
	weightFn kernel.Weight
	robustFn kernel.RobustWeight

	fitResults *Results
	residual   []float64
}

// New creates a new instance of a Loess model using the provided options. If
// no options are provided a default is used.
func New(opt *Options) (*Loess, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	weightFn, err := opt.Kernel.Func()
	if err != nil {
		return nil, err
	}
	robustFn, err := opt.RobustMethod.Func()
	if err != nil {
		return nil, err
	}

	return &Loess{
		opt:      opt,
		weightFn: weightFn,
		robustFn: robustFn,
	}, nil
}

// NewFromModel creates a new instance of Loess from a pre-existing model.
// This should be generated from a previous call to Model().
func NewFromModel(m Model) (*Loess, error) {
	if m.Options == nil {
		return nil, ErrNoOptionsInModel
	}
	l, err := New(m.Options)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize model, %w", err)
	}
	if err := l.Fit(m.X, m.Y); err != nil {
		return nil, fmt.Errorf("unable to refit stored training data, %w", err)
	}
	return l, nil
}

// Fit validates and stores the training data and smooths the training points
// themselves. The training set is immutable for the life of the fit.
func (l *Loess) Fit(x [][]float64, y []float64) error {
	td, err := dataset.New(x, y, l.opt.Dims)
	if err != nil {
		return fmt.Errorf("unable to create training dataset, %w", err)
	}

	minPts := models.BasisSize(l.opt.Dims, l.opt.Degree)
	if td.Len() < minPts {
		return fmt.Errorf(
			"%d training points but %s degree over %d dimensions requires at least %d, %w",
			td.Len(), l.opt.Degree, l.opt.Dims, minPts, ErrInsufficientPoints,
		)
	}

	l.orig = td.Copy()
	if l.opt.Standardize {
		l.scale = td.Standardize()
	}
	l.td = td

	k := int(math.Ceil(l.opt.Span * float64(td.Len())))
	if k < minPts {
		k = minPts
	}
	if k > td.Len() {
		k = td.Len()
	}
	l.k = k

	selector, err := neighbor.NewSelector(td.X, l.opt.Dims, l.opt.TiePolicy)
	if err != nil {
		return fmt.Errorf("unable to build neighborhood selector, %w", err)
	}
	l.selector = selector

	res, err := l.Predict(l.orig.X)
	if err != nil {
		return fmt.Errorf("unable to smooth training points, %w", err)
	}
	l.fitResults = res

	l.residual = make([]float64, td.Len())
	for i := range l.residual {
		l.residual[i] = l.orig.Y[i] - res.Smoothed[i]
	}

	return nil
}

// Predict evaluates the smoothed response at each query point returning one
// result per point in input order. Per point numerical failures are isolated
// in Results.Failures unless FailFast is set.
func (l *Loess) Predict(queries [][]float64) (*Results, error) {
	if l.td == nil {
		return nil, ErrNotFitted
	}

	for i, q := range queries {
		if len(q) != l.opt.Dims {
			return nil, fmt.Errorf(
				"query %d has %d coordinates, expected %d, %w",
				i, len(q), l.opt.Dims, neighbor.ErrInvalidDimension,
			)
		}
		for _, val := range q {
			if math.IsNaN(val) || math.IsInf(val, 0) {
				return nil, fmt.Errorf("query %d, %w", i, ErrNonFiniteQuery)
			}
		}
	}

	xCopy := make([][]float64, len(queries))
	smoothed := make([]float64, len(queries))
	for i, q := range queries {
		row := make([]float64, len(q))
		copy(row, q)
		xCopy[i] = row
		smoothed[i] = math.NaN()
	}
	res := &Results{
		X:        xCopy,
		Smoothed: smoothed,
	}

	var err error
	switch l.opt.Strategy {
	case StrategySerial:
		err = l.predictSerial(queries, res)
	default:
		err = l.predictParallel(queries, res)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Residuals returns the difference between the training responses and their
// smoothed values.
func (l *Loess) Residuals() []float64 {
	return l.residual
}

// FitResults returns the smoothed values at the training points.
func (l *Loess) FitResults() *Results {
	return l.fitResults
}

// TrainingData returns the training data used to fit the current model.
func (l *Loess) TrainingData() *dataset.Dataset {
	return l.orig
}

// Span returns the validated span fraction in use.
func (l *Loess) Span() float64 {
	return l.opt.Span
}

// NeighborhoodSize returns the resolved per query neighborhood point count.
func (l *Loess) NeighborhoodSize() int {
	return l.k
}

// Outliers flags training points whose fit residuals fall outside the tukey
// fences derived from the lower and upper residual percentiles.
func (l *Loess) Outliers(lowerPerc, upperPerc, tukeyFactor float64) ([]int, error) {
	if l.residual == nil {
		return nil, ErrNotFitted
	}
	return stats.DetectOutliers(l.residual, lowerPerc, upperPerc, tukeyFactor), nil
}
