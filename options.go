package loess

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/aouyang1/go-loess/kernel"
	"github.com/aouyang1/go-loess/models"
	"github.com/aouyang1/go-loess/neighbor"
)

const (
	DefaultSpan                 = 0.67
	DefaultRobustnessIterations = 3
)

var (
	ErrInvalidSpan           = errors.New("span must be in (0, 1]")
	ErrNegativeIterations    = errors.New("negative robustness iterations")
	ErrInvalidDims           = errors.New("dimensions must be at least 1")
	ErrNegativeParallel      = errors.New("negative parallelization")
	ErrUnknownStrategy       = errors.New("unknown execution strategy")
	ErrUnsupportedStrategy   = errors.New("execution strategy not implemented")
	ErrUnknownSingularPolicy = errors.New("unknown singular fit policy")
)

// Strategy selects how query points are distributed during a fit.
type Strategy string

const (
	// StrategySerial processes query points sequentially in input order.
	StrategySerial Strategy = "serial"

	// StrategyParallel partitions query points across a worker pool. Results
	// stay in input order and match the serial strategy up to floating point
	// summation order.
	StrategyParallel Strategy = "parallel"

	// StrategyAccelerated is a placeholder for a vectorized backend. It is
	// rejected at validation time until such a backend exists.
	StrategyAccelerated Strategy = "accelerated"
)

// SingularPolicy picks the recovery behavior when a query point's weighted
// design matrix turns out rank deficient.
type SingularPolicy string

const (
	// FallbackLowerDegree retries the local fit with progressively lower
	// polynomial degrees ending at the locally weighted mean. This is the
	// default.
	FallbackLowerDegree SingularPolicy = "lower_degree"

	// FallbackNaN records NaN for the failed point.
	FallbackNaN SingularPolicy = "nan"

	// FallbackError reports the point as failed leaving other points intact,
	// or aborts the batch under FailFast.
	FallbackError SingularPolicy = "error"
)

// Options configures a smoothing session by specifying the neighborhood span,
// local polynomial degree, robustness iteration count and execution strategy.
type Options struct {
	// Span is the fraction of training points in each local neighborhood.
	// Must be in (0, 1]; the resulting neighborhood size is never allowed
	// below the degree's minimum point count.
	Span float64 `json:"span"`

	Degree models.Degree `json:"degree"`

	// RobustnessIterations is the number of bisquare reweighting passes used
	// to reduce outlier influence. Zero means a single kernel weighted fit.
	RobustnessIterations int `json:"robustness_iterations"`

	// Dims is the predictor arity of the training data.
	Dims int `json:"dimensions"`

	Strategy Strategy `json:"strategy"`

	// Parallelization caps concurrent workers under StrategyParallel. Zero
	// defaults to runtime.GOMAXPROCS(0).
	Parallelization int `json:"parallelization"`

	Kernel       kernel.Kernel       `json:"kernel"`
	RobustMethod kernel.RobustMethod `json:"robust_method"`

	// TiePolicy pins neighborhood membership when points sit exactly at the
	// boundary distance.
	TiePolicy neighbor.TiePolicy `json:"tie_policy"`

	// Standardize rescales each predictor dimension to zero mean and unit
	// variance before distance computation.
	Standardize bool `json:"standardize"`

	SingularPolicy SingularPolicy `json:"singular_policy"`

	// FailFast aborts a Predict batch on the first per-point failure instead
	// of reporting failures alongside successful results.
	FailFast bool `json:"fail_fast"`

	WLSOptions *models.WLSOptions `json:"wls_options"`
}

// NewDefaultOptions returns a default set of smoothing options
func NewDefaultOptions() *Options {
	return &Options{
		Span:                 DefaultSpan,
		Degree:               models.DegreeLinear,
		RobustnessIterations: DefaultRobustnessIterations,
		Dims:                 1,
		Strategy:             StrategyParallel,
		Kernel:               kernel.KernelTricube,
		RobustMethod:         kernel.RobustBisquare,
		TiePolicy:            neighbor.TieIndexOrder,
		SingularPolicy:       FallbackLowerDegree,
	}
}

// Validate runs basic validation on smoothing options backfilling zero values
// with defaults.
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}

	if o.Span <= 0.0 || o.Span > 1.0 {
		return nil, fmt.Errorf("got span of %f, %w", o.Span, ErrInvalidSpan)
	}
	if err := o.Degree.Validate(); err != nil {
		return nil, err
	}
	if o.Degree == "" {
		o.Degree = models.DegreeLinear
	}
	if o.RobustnessIterations < 0 {
		return nil, ErrNegativeIterations
	}
	if o.Dims == 0 {
		o.Dims = 1
	}
	if o.Dims < 1 {
		return nil, fmt.Errorf("got %d dimensions, %w", o.Dims, ErrInvalidDims)
	}

	switch o.Strategy {
	case StrategySerial, StrategyParallel:
	case "":
		o.Strategy = StrategyParallel
	case StrategyAccelerated:
		return nil, fmt.Errorf("%s, %w", o.Strategy, ErrUnsupportedStrategy)
	default:
		return nil, fmt.Errorf("%s, %w", o.Strategy, ErrUnknownStrategy)
	}

	if o.Parallelization < 0 {
		return nil, ErrNegativeParallel
	}
	if o.Parallelization == 0 {
		o.Parallelization = runtime.GOMAXPROCS(0)
	}

	if _, err := o.Kernel.Func(); err != nil {
		return nil, err
	}
	if o.Kernel == "" {
		o.Kernel = kernel.KernelTricube
	}
	if _, err := o.RobustMethod.Func(); err != nil {
		return nil, err
	}
	if o.RobustMethod == "" {
		o.RobustMethod = kernel.RobustBisquare
	}
	if err := o.TiePolicy.Validate(); err != nil {
		return nil, err
	}
	if o.TiePolicy == "" {
		o.TiePolicy = neighbor.TieIndexOrder
	}

	switch o.SingularPolicy {
	case FallbackLowerDegree, FallbackNaN, FallbackError:
	case "":
		o.SingularPolicy = FallbackLowerDegree
	default:
		return nil, fmt.Errorf("%s, %w", o.SingularPolicy, ErrUnknownSingularPolicy)
	}

	wlsOpt, err := o.WLSOptions.Validate()
	if err != nil {
		return nil, err
	}
	o.WLSOptions = wlsOpt

	return o, nil
}
