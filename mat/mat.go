package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch        = errors.New("column size mismatch")
	ErrUninitializedArray = errors.New("uninitialized array")
)

func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n < 0 {
		n = 0
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// ColsFromRows converts row-major observations into one slice per column. The
// neighborhood selector works a predictor dimension at a time so it wants the
// transposed layout.
func ColsFromRows(x [][]float64, n int) ([][]float64, error) {
	if x == nil {
		return nil, ErrUninitializedArray
	}

	cols := make([][]float64, n)
	for j := 0; j < n; j++ {
		cols[j] = make([]float64, len(x))
	}
	for i, row := range x {
		if len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		for j, val := range row {
			cols[j][i] = val
		}
	}
	return cols, nil
}
