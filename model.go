package loess

import "fmt"

// Model is a serializable representation of the fit options and training
// data. LOESS is memory based so the model is the data; a new Loess can be
// initialized from it for immediate predictions.
type Model struct {
	Options *Options    `json:"options"`
	X       [][]float64 `json:"x"`
	Y       []float64   `json:"y"`
}

// Model generates a serializable representation of the fit options and
// training data.
func (l *Loess) Model() (Model, error) {
	if l.orig == nil {
		return Model{}, ErrNotFitted
	}

	td := l.orig.Copy()
	return Model{
		Options: l.opt,
		X:       td.X,
		Y:       td.Y,
	}, nil
}

// ModelEq returns a short string representation of the smoothing setup.
func (l *Loess) ModelEq() (string, error) {
	if l.orig == nil {
		return "", ErrNotFitted
	}
	return fmt.Sprintf(
		"loess(span=%.3f, degree=%s, robustness=%d, dims=%d, n=%d)",
		l.opt.Span, l.opt.Degree, l.opt.RobustnessIterations, l.opt.Dims, l.orig.Len(),
	), nil
}
