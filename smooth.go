package loess

import (
	"errors"
	"math"

	"github.com/aouyang1/go-loess/kernel"
	"github.com/aouyang1/go-loess/models"
	"github.com/aouyang1/go-loess/neighbor"
	"github.com/aouyang1/go-loess/stats"
)

// LocalFit exposes the byproducts of one query point's local regression for
// diagnostics: neighborhood membership, kernel and final combined weights and
// the fitted polynomial coefficients. Degree reflects the degree actually
// used which may be lower than configured when a rank deficient fit degraded.
// A Coef of nil means the terminal weighted mean fallback produced the value.
type LocalFit struct {
	Value           float64
	Degree          models.Degree
	Indexes         []int
	Distances       []float64
	Bandwidth       float64
	KernelWeights   []float64
	CombinedWeights []float64
	Coef            []float64
}

// LocalFit runs the full neighborhood, kernel weighting and robustness
// pipeline for a single query point and returns the fit diagnostics.
func (l *Loess) LocalFit(query []float64) (*LocalFit, error) {
	if l.td == nil {
		return nil, ErrNotFitted
	}
	if len(query) != l.opt.Dims {
		return nil, neighbor.ErrInvalidDimension
	}

	if l.scale != nil {
		query = l.scale.Apply(query)
	}

	nb, err := l.selector.Select(query, l.k)
	if err != nil {
		return nil, err
	}

	kw := make([]float64, len(nb.Indexes))
	for i, dist := range nb.Distances {
		kw[i] = l.weightFn(dist, nb.Bandwidth)
	}

	lf, err := l.solveLocal(query, nb, kw, l.opt.Degree)
	if err == nil {
		return lf, nil
	}
	if !errors.Is(err, models.ErrSingularFit) {
		return nil, err
	}

	switch l.opt.SingularPolicy {
	case FallbackNaN:
		return &LocalFit{
			Value:         math.NaN(),
			Indexes:       nb.Indexes,
			Distances:     nb.Distances,
			Bandwidth:     nb.Bandwidth,
			KernelWeights: kw,
		}, nil
	case FallbackError:
		return nil, err
	}

	// degrade the polynomial until something solves, ending at the locally
	// weighted mean which is always defined
	degree := l.opt.Degree
	for {
		lower, ok := degree.Lower()
		if !ok {
			break
		}
		degree = lower
		lf, err = l.solveLocal(query, nb, kw, degree)
		if err == nil {
			return lf, nil
		}
		if !errors.Is(err, models.ErrSingularFit) {
			return nil, err
		}
	}

	val, err := stats.WeightedMean(l.gatherY(nb.Indexes), kw)
	if err != nil {
		return nil, err
	}
	return &LocalFit{
		Value:           val,
		Indexes:         nb.Indexes,
		Distances:       nb.Distances,
		Bandwidth:       nb.Bandwidth,
		KernelWeights:   kw,
		CombinedWeights: kw,
	}, nil
}

func (l *Loess) fitPoint(query []float64) (float64, error) {
	lf, err := l.LocalFit(query)
	if err != nil {
		return math.NaN(), err
	}
	return lf.Value, nil
}

// solveLocal runs the bounded robustness loop for one neighborhood at a fixed
// degree: solve, residualize against the local polynomial, bisquare reweight,
// resolve. A robustness scale collapsing to zero means a locally perfect fit
// so downweighting stops early.
func (l *Loess) solveLocal(query []float64, nb *neighbor.Neighborhood, kw []float64, degree models.Degree) (*LocalFit, error) {
	design := models.DesignMatrix(l.td.X, nb.Indexes, l.opt.Dims, degree)
	nbY := l.gatherY(nb.Indexes)

	combined := make([]float64, len(kw))
	copy(combined, kw)

	model, err := models.NewWLSRegression(l.opt.WLSOptions)
	if err != nil {
		return nil, err
	}

	resid := make([]float64, len(nbY))
	for iter := 0; iter < l.opt.RobustnessIterations; iter++ {
		if err := model.Fit(design, nbY, combined); err != nil {
			return nil, err
		}

		for i := range nbY {
			fitted, err := model.PredictPoint(design.RawRowView(i))
			if err != nil {
				return nil, err
			}
			resid[i] = nbY[i] - fitted
		}

		scale, err := stats.MAR(resid)
		if err != nil {
			return nil, err
		}
		if scale <= kernel.RobustScaleEpsilon {
			break
		}

		for i := range combined {
			combined[i] = kw[i] * l.robustFn(resid[i], scale)
		}
	}

	if err := model.Fit(design, nbY, combined); err != nil {
		return nil, err
	}

	val, err := model.PredictPoint(models.Basis(nil, query, degree))
	if err != nil {
		return nil, err
	}

	return &LocalFit{
		Value:           val,
		Degree:          degree,
		Indexes:         nb.Indexes,
		Distances:       nb.Distances,
		Bandwidth:       nb.Bandwidth,
		KernelWeights:   kw,
		CombinedWeights: combined,
		Coef:            model.Coef(),
	}, nil
}

func (l *Loess) gatherY(idxs []int) []float64 {
	y := make([]float64, len(idxs))
	for i, idx := range idxs {
		y[i] = l.td.Y[idx]
	}
	return y
}
