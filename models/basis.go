package models

import (
	"gonum.org/v1/gonum/mat"
)

// Degree selects the order of the local polynomial fit.
type Degree string

const (
	DegreeConstant  Degree = "constant"
	DegreeLinear    Degree = "linear"
	DegreeQuadratic Degree = "quadratic"
)

func (d Degree) Validate() error {
	switch d {
	case DegreeConstant, DegreeLinear, DegreeQuadratic, "":
		return nil
	}
	return ErrUnknownDegree
}

// Lower returns the next degree down, used when a rank deficient fit degrades
// to a simpler polynomial. Constant has no lower degree.
func (d Degree) Lower() (Degree, bool) {
	switch d {
	case DegreeQuadratic:
		return DegreeLinear, true
	case DegreeLinear, "":
		return DegreeConstant, true
	}
	return DegreeConstant, false
}

// BasisSize returns the number of terms in the polynomial basis expansion for
// the given predictor arity; intercept only for constant, intercept plus each
// coordinate for linear, and additionally all squares and cross terms for
// quadratic. This is also the minimum number of training points required to
// fit the degree.
func BasisSize(dims int, degree Degree) int {
	switch degree {
	case DegreeConstant:
		return 1
	case DegreeQuadratic:
		return 1 + dims + dims*(dims+1)/2
	default:
		return 1 + dims
	}
}

// Basis expands a predictor point into its polynomial basis terms appending to
// dst which may be nil.
func Basis(dst, point []float64, degree Degree) []float64 {
	dst = append(dst, 1.0)
	if degree == DegreeConstant {
		return dst
	}
	dst = append(dst, point...)
	if degree != DegreeQuadratic {
		return dst
	}
	for i := 0; i < len(point); i++ {
		for j := i; j < len(point); j++ {
			dst = append(dst, point[i]*point[j])
		}
	}
	return dst
}

// DesignMatrix builds the basis expanded design matrix for the selected
// training rows.
func DesignMatrix(x [][]float64, idxs []int, dims int, degree Degree) *mat.Dense {
	nTerms := BasisSize(dims, degree)
	data := make([]float64, 0, len(idxs)*nTerms)
	for _, idx := range idxs {
		data = Basis(data, x[idx], degree)
	}
	return mat.NewDense(len(idxs), nTerms, data)
}
