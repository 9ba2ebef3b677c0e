package loess

import "fmt"

// PointError records a per point numerical failure without aborting the rest
// of the batch.
type PointError struct {
	Index int
	Err   error
}

func (p PointError) Error() string {
	return fmt.Sprintf("query point %d: %v", p.Index, p.Err)
}

func (p PointError) Unwrap() error {
	return p.Err
}

// Results holds one smoothed value per query point in input order. Failed
// points hold NaN in Smoothed and carry their cause in Failures unless the
// singular policy degraded them to a defined value.
type Results struct {
	X        [][]float64  `json:"x"`
	Smoothed []float64    `json:"smoothed"`
	Failures []PointError `json:"-"`
}

// Failed reports whether any query point in the batch failed.
func (r *Results) Failed() bool {
	return len(r.Failures) > 0
}
