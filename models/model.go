// Package models contains the weighted least squares fitting implementation
// and the polynomial basis expansion used for each local regression.
package models

import (
	"gonum.org/v1/gonum/mat"
)

type Model interface {
	Fit(x mat.Matrix, y, weights []float64) error
	PredictPoint(basis []float64) (float64, error)
	Intercept() float64
	Coef() []float64
}
