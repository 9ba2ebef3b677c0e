// Package dataset holds the immutable training data for a smoothing session
// along with predictor standardization and synthetic data generation helpers.
package dataset

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrDatasetLenMismatch = errors.New("predictors have a different length than observations")
	ErrInvalidDimension   = errors.New("predictor dimension mismatch")
	ErrNonFinite          = errors.New("non-finite value in training data")
)

// Dataset represents a training set of n observations each with dims predictor
// coordinates and one response value. Once a fit session starts the dataset is
// shared read-only across workers.
type Dataset struct {
	X [][]float64
	Y []float64

	dims int
}

// New validates and copies the predictor rows and response values. Every row
// must have exactly dims coordinates and all values must be finite.
func New(x [][]float64, y []float64, dims int) (*Dataset, error) {
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if dims < 1 {
		return nil, fmt.Errorf("dims must be at least 1, got %d, %w", dims, ErrInvalidDimension)
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf(
			"predictors have length of %d, but values has a length of %d, %w",
			len(x), len(y), ErrDatasetLenMismatch,
		)
	}

	xRows := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != dims {
			return nil, fmt.Errorf("row %d has %d coordinates, expected %d, %w", i, len(row), dims, ErrInvalidDimension)
		}
		for j, val := range row {
			if math.IsNaN(val) || math.IsInf(val, 0) {
				return nil, fmt.Errorf("predictor at row %d col %d, %w", i, j, ErrNonFinite)
			}
		}
		xRow := make([]float64, dims)
		copy(xRow, row)
		xRows[i] = xRow
	}

	ySeries := make([]float64, len(y))
	for i, val := range y {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("response at row %d, %w", i, ErrNonFinite)
		}
		ySeries[i] = val
	}

	return &Dataset{
		X:    xRows,
		Y:    ySeries,
		dims: dims,
	}, nil
}

// NewUnivariate wraps a single predictor slice into a one dimensional dataset.
func NewUnivariate(x, y []float64) (*Dataset, error) {
	xRows := make([][]float64, len(x))
	for i, val := range x {
		xRows[i] = []float64{val}
	}
	return New(xRows, y, 1)
}

// Len returns the number of observations.
func (d *Dataset) Len() int {
	return len(d.Y)
}

// Dims returns the predictor arity.
func (d *Dataset) Dims() int {
	return d.dims
}

func (d *Dataset) Copy() *Dataset {
	xRows := make([][]float64, len(d.X))
	for i, row := range d.X {
		xRow := make([]float64, len(row))
		copy(xRow, row)
		xRows[i] = xRow
	}
	ySeries := make([]float64, len(d.Y))
	copy(ySeries, d.Y)
	return &Dataset{
		X:    xRows,
		Y:    ySeries,
		dims: d.dims,
	}
}

// Scale holds per-dimension standardization parameters so distances in
// multi-dimensional predictor space are not dominated by one unit system.
type Scale struct {
	Mean   []float64 `json:"mean"`
	Stddev []float64 `json:"stddev"`
}

// Standardize computes per-dimension mean and stddev over the predictors and
// rescales them in place. A constant dimension keeps a stddev of 1 so scaling
// is a no-op there.
func (d *Dataset) Standardize() *Scale {
	n := float64(d.Len())
	mean := make([]float64, d.dims)
	stddev := make([]float64, d.dims)

	for _, row := range d.X {
		for j, val := range row {
			mean[j] += val
		}
	}
	for j := range mean {
		mean[j] /= n
	}

	for _, row := range d.X {
		for j, val := range row {
			diff := val - mean[j]
			stddev[j] += diff * diff
		}
	}
	for j := range stddev {
		stddev[j] = math.Sqrt(stddev[j] / n)
		if stddev[j] == 0.0 {
			stddev[j] = 1.0
		}
	}

	s := &Scale{Mean: mean, Stddev: stddev}
	for _, row := range d.X {
		s.apply(row)
	}
	return s
}

// Apply rescales a query point into the standardized space returning a new
// slice. The query must already be validated for arity.
func (s *Scale) Apply(query []float64) []float64 {
	scaled := make([]float64, len(query))
	copy(scaled, query)
	s.apply(scaled)
	return scaled
}

func (s *Scale) apply(row []float64) {
	for j := range row {
		row[j] = (row[j] - s.Mean[j]) / s.Stddev[j]
	}
}
