package loess

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/aouyang1/go-loess/dataset"
	"github.com/aouyang1/go-loess/stats"
)

const DefaultCVFolds = 5

var (
	ErrNoSpans      = errors.New("no candidate spans provided to fit with")
	ErrUnknownCV    = errors.New("unknown cross validation kind")
	ErrInvalidFolds = errors.New("fold count must be at least 2")
	ErrNoValidSpan  = errors.New("no candidate span produced a finite score")
)

// CVKind selects the cross validation scheme used to score candidate spans.
type CVKind string

const (
	// CVLeaveOneOut refits the model once per training point with that point
	// held out and scores the prediction at it. This is the default.
	CVLeaveOneOut CVKind = "loocv"

	// CVKFold splits the training data into contiguous folds, fits on the
	// remainder and scores predictions on the held out fold.
	CVKFold CVKind = "kfold"
)

// AutoOptions represents input options to run the cross validated span search
type AutoOptions struct {
	// Spans are the candidate span fractions to evaluate. Each must be in
	// (0, 1].
	Spans []float64 `json:"spans"`

	CV CVKind `json:"cv"`

	// Folds is the fold count under CVKFold.
	Folds int `json:"folds"`

	// Parallelization limits the number of candidate spans evaluated
	// concurrently. Candidate fits themselves run serially.
	Parallelization int `json:"parallelization"`

	// Base holds the smoothing options applied to every candidate. The span
	// field of the base is overwritten per candidate.
	Base *Options `json:"base"`
}

// Validate runs basic validation on the span search options
func (o *AutoOptions) Validate() (*AutoOptions, error) {
	if o == nil {
		o = NewDefaultAutoOptions()
	}
	if len(o.Spans) == 0 {
		return nil, ErrNoSpans
	}
	for _, span := range o.Spans {
		if span <= 0.0 || span > 1.0 {
			return nil, fmt.Errorf("got span of %f, %w", span, ErrInvalidSpan)
		}
	}

	switch o.CV {
	case "":
		o.CV = CVLeaveOneOut
	case CVLeaveOneOut:
	case CVKFold:
		if o.Folds == 0 {
			o.Folds = DefaultCVFolds
		}
		if o.Folds < 2 {
			return nil, ErrInvalidFolds
		}
	default:
		return nil, fmt.Errorf("%s, %w", o.CV, ErrUnknownCV)
	}

	if o.Parallelization < 0 {
		return nil, ErrNegativeParallel
	}
	if o.Parallelization == 0 {
		o.Parallelization = 1
	}

	base, err := o.Base.Validate()
	if err != nil {
		return nil, err
	}
	// candidate fits run serially since the search already fans out
	base.Strategy = StrategySerial
	o.Base = base

	return o, nil
}

// NewDefaultAutoOptions returns a default set of span search options
func NewDefaultAutoOptions() *AutoOptions {
	return &AutoOptions{
		Spans:           []float64{0.3, 0.5, 0.67, 0.8, 1.0},
		CV:              CVLeaveOneOut,
		Parallelization: 1,
	}
}

// AutoLoess selects the smoothing span by scoring candidate spans with cross
// validation and keeps the full fit for the winner.
type AutoLoess struct {
	opt *AutoOptions

	scoreMu   sync.Mutex
	scores    []float64
	bestScore float64
	bestSpan  float64

	best *Loess
}

// NewAutoLoess initializes a span search ready for fitting
func NewAutoLoess(opt *AutoOptions) (*AutoLoess, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &AutoLoess{
		opt:       opt,
		bestScore: math.Inf(1),
	}, nil
}

// Fit scores every candidate span against the training data and fits the
// winning span on the full data.
func (a *AutoLoess) Fit(x [][]float64, y []float64) error {
	a.scores = make([]float64, len(a.opt.Spans))

	sem := make(chan struct{}, a.opt.Parallelization)
	var wg sync.WaitGroup
	for i, span := range a.opt.Spans {
		sem <- struct{}{}
		wg.Add(1)

		go a.runSpan(i, span, x, y, &wg, sem)
	}
	wg.Wait()

	if math.IsInf(a.bestScore, 1) {
		return ErrNoValidSpan
	}

	opt := *a.opt.Base
	opt.Span = a.bestSpan
	model, err := New(&opt)
	if err != nil {
		return fmt.Errorf("unable to initialize winning span fit, %w", err)
	}
	if err := model.Fit(x, y); err != nil {
		return fmt.Errorf("unable to fit winning span, %w", err)
	}
	a.best = model
	return nil
}

func (a *AutoLoess) runSpan(i int, span float64, x [][]float64, y []float64, wg *sync.WaitGroup, sem chan struct{}) {
	defer func() {
		wg.Done()
		<-sem
	}()

	score, err := a.evaluateSpan(span, x, y)
	if err != nil {
		slog.Error("unable to evaluate candidate span", "span", span, "error", err.Error())
		score = math.Inf(1)
	}

	a.scoreMu.Lock()
	defer a.scoreMu.Unlock()
	a.scores[i] = score
	if score < a.bestScore {
		a.bestScore = score
		a.bestSpan = span
	}
}

func (a *AutoLoess) evaluateSpan(span float64, x [][]float64, y []float64) (float64, error) {
	opt := *a.opt.Base
	opt.Span = span

	switch a.opt.CV {
	case CVKFold:
		return a.evaluateKFold(&opt, x, y)
	default:
		return a.evaluateLOOCV(&opt, x, y)
	}
}

func (a *AutoLoess) evaluateLOOCV(opt *Options, x [][]float64, y []float64) (float64, error) {
	n := len(y)
	predicted := make([]float64, n)
	for i := 0; i < n; i++ {
		trainX := make([][]float64, 0, n-1)
		trainY := make([]float64, 0, n-1)
		trainX = append(trainX, x[:i]...)
		trainX = append(trainX, x[i+1:]...)
		trainY = append(trainY, y[:i]...)
		trainY = append(trainY, y[i+1:]...)

		model, err := New(opt)
		if err != nil {
			return 0.0, err
		}
		if err := model.Fit(trainX, trainY); err != nil {
			return 0.0, err
		}

		res, err := model.Predict(x[i : i+1])
		if err != nil {
			return 0.0, err
		}
		predicted[i] = res.Smoothed[0]
	}
	return stats.RMSE(predicted, y)
}

func (a *AutoLoess) evaluateKFold(opt *Options, x [][]float64, y []float64) (float64, error) {
	n := len(y)
	foldSize := n / a.opt.Folds
	if foldSize < 1 {
		return math.Inf(1), nil
	}

	var sse float64
	var cnt int
	for fold := 0; fold < a.opt.Folds; fold++ {
		testStart := fold * foldSize
		testEnd := testStart + foldSize
		if fold == a.opt.Folds-1 {
			testEnd = n
		}

		trainX := make([][]float64, 0, n-(testEnd-testStart))
		trainY := make([]float64, 0, n-(testEnd-testStart))
		for i := 0; i < n; i++ {
			if i >= testStart && i < testEnd {
				continue
			}
			trainX = append(trainX, x[i])
			trainY = append(trainY, y[i])
		}

		model, err := New(opt)
		if err != nil {
			return 0.0, err
		}
		if err := model.Fit(trainX, trainY); err != nil {
			// fold too small for the degree, skip it
			if errors.Is(err, ErrInsufficientPoints) || errors.Is(err, dataset.ErrNoTrainingData) {
				continue
			}
			return 0.0, err
		}

		res, err := model.Predict(x[testStart:testEnd])
		if err != nil {
			return 0.0, err
		}
		for i, val := range res.Smoothed {
			if math.IsNaN(val) {
				continue
			}
			diff := y[testStart+i] - val
			sse += diff * diff
			cnt++
		}
	}

	if cnt == 0 {
		return math.Inf(1), nil
	}
	return math.Sqrt(sse / float64(cnt)), nil
}

// BestSpan returns the winning span fraction after fitting.
func (a *AutoLoess) BestSpan() float64 {
	return a.bestSpan
}

// Scores returns the cross validation score per candidate span aligned with
// the configured span order.
func (a *AutoLoess) Scores() []float64 {
	s := make([]float64, len(a.scores))
	copy(s, a.scores)
	return s
}

// Best returns the Loess model fit with the winning span over the full
// training data.
func (a *AutoLoess) Best() *Loess {
	return a.best
}
