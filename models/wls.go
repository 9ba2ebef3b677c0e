package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const DefaultRankTolerance = 1e-10

// WLSOptions represents input options to run the weighted least squares fit
type WLSOptions struct {
	// RankTolerance bounds how small a diagonal element of the R factor may be
	// relative to the largest before the fit is considered rank deficient.
	RankTolerance float64 `json:"rank_tolerance"`
}

// Validate runs basic validation on WLS options
func (o *WLSOptions) Validate() (*WLSOptions, error) {
	if o == nil {
		o = NewDefaultWLSOptions()
	}
	if o.RankTolerance <= 0 {
		o.RankTolerance = DefaultRankTolerance
	}
	return o, nil
}

// NewDefaultWLSOptions returns a default set of weighted least squares options
func NewDefaultWLSOptions() *WLSOptions {
	return &WLSOptions{
		RankTolerance: DefaultRankTolerance,
	}
}

// WLSRegression computes weighted least squares using QR factorization of the
// row scaled system. Kernel and robustness weights enter by scaling each
// observation row with the square root of its combined weight.
type WLSRegression struct {
	opt  *WLSOptions
	coef []float64
}

// NewWLSRegression initializes a weighted least squares model ready for fitting
func NewWLSRegression(opt *WLSOptions) (*WLSRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &WLSRegression{
		opt: opt,
	}, nil
}

// Fit solves the weighted least squares problem for the basis expanded design
// matrix x against y. A nil weights slice fits unweighted. Returns
// ErrSingularFit when the weighted design matrix is rank deficient which
// happens with too few distinct points or a neighborhood driven to near zero
// effective weight.
func (w *WLSRegression) Fit(x mat.Matrix, y, weights []float64) error {
	if w.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetArray
	}
	m, n := x.Dims()
	if len(y) != m {
		return fmt.Errorf("training data has %d rows and target has %d, %w", m, len(y), ErrTargetLenMismatch)
	}
	if weights != nil && len(weights) != m {
		return fmt.Errorf("training data has %d rows and weights has %d, %w", m, len(weights), ErrWeightLenMismatch)
	}
	if m < n {
		return fmt.Errorf("%d rows for %d basis terms, %w", m, n, ErrSingularFit)
	}

	xw := mat.NewDense(m, n, nil)
	yw := mat.NewDense(1, m, nil)
	for i := 0; i < m; i++ {
		scale := 1.0
		if weights != nil {
			if weights[i] < 0 {
				return fmt.Errorf("negative weight at row %d, %w", i, ErrNegativeWeight)
			}
			scale = math.Sqrt(weights[i])
		}
		for j := 0; j < n; j++ {
			xw.Set(i, j, scale*x.At(i, j))
		}
		yw.Set(0, i, scale*y[i])
	}

	qr := new(mat.QR)
	qr.Factorize(xw)

	q := new(mat.Dense)
	r := new(mat.Dense)

	qr.QTo(q)
	qr.RTo(r)

	maxDiag := 0.0
	for i := 0; i < n; i++ {
		if abs := math.Abs(r.At(i, i)); abs > maxDiag {
			maxDiag = abs
		}
	}
	rankTol := w.opt.RankTolerance * math.Max(1.0, maxDiag)
	for i := 0; i < n; i++ {
		if math.Abs(r.At(i, i)) <= rankTol {
			return fmt.Errorf("diagonal %d of R below tolerance, %w", i, ErrSingularFit)
		}
	}

	yq := new(mat.Dense)
	yq.Mul(yw, q)

	c := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		c[i] = yq.At(0, i)
		for j := i + 1; j < n; j++ {
			c[i] -= c[j] * r.At(i, j)
		}
		c[i] /= r.At(i, i)
	}

	w.coef = c
	return nil
}

// PredictPoint evaluates the fitted polynomial for a single basis expanded
// point.
func (w *WLSRegression) PredictPoint(basis []float64) (float64, error) {
	if w.coef == nil {
		return 0.0, ErrNotFitted
	}
	if len(basis) != len(w.coef) {
		return 0.0, fmt.Errorf("got %d basis terms, but expected %d, %w", len(basis), len(w.coef), ErrFeatureLenMismatch)
	}
	var val float64
	for i, c := range w.coef {
		val += c * basis[i]
	}
	return val, nil
}

// Intercept returns the constant term of the fitted polynomial.
func (w *WLSRegression) Intercept() float64 {
	if w.coef == nil {
		return 0.0
	}
	return w.coef[0]
}

// Coef returns a copy of all fitted coefficients including the intercept.
func (w *WLSRegression) Coef() []float64 {
	c := make([]float64, len(w.coef))
	copy(c, w.coef)
	return c
}
