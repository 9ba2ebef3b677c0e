// Package neighbor orders training points by euclidean distance from a query
// point and selects the span determined neighborhood used for a local fit.
package neighbor

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aouyang1/go-loess/floatsunrolled"
	mat_ "github.com/aouyang1/go-loess/mat"
)

var (
	ErrInvalidDimension        = errors.New("query dimension mismatch")
	ErrInvalidNeighborhoodSize = errors.New("neighborhood size out of bounds")
	ErrUnknownTiePolicy        = errors.New("unknown tie policy")
)

// TiePolicy pins down membership when multiple training points sit exactly at
// the neighborhood boundary distance.
type TiePolicy string

const (
	// TieIndexOrder keeps exactly k members, breaking boundary ties by
	// original training index. This is the default.
	TieIndexOrder TiePolicy = "index_order"

	// TieIncludeAll extends the neighborhood across the entire run of points
	// tied at the boundary distance.
	TieIncludeAll TiePolicy = "include_all"
)

func (p TiePolicy) Validate() error {
	switch p {
	case TieIndexOrder, TieIncludeAll, "":
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownTiePolicy, p)
}

// Neighborhood is the result of one selection. Indexes reference the original
// training rows ordered nearest first and Bandwidth is the maximum selected
// distance used to normalize kernel weights.
type Neighborhood struct {
	Indexes   []int
	Distances []float64
	Bandwidth float64
}

// Selector computes neighborhoods against a fixed training set. It is
// read-only after construction and safe to share across workers; all per-query
// scratch memory is allocated inside Select.
type Selector struct {
	cols      [][]float64 // column major, padded to the unroll batch
	n         int
	dims      int
	tiePolicy TiePolicy
}

// NewSelector builds a selector over the training predictor rows.
func NewSelector(x [][]float64, dims int, tiePolicy TiePolicy) (*Selector, error) {
	if err := tiePolicy.Validate(); err != nil {
		return nil, err
	}
	if tiePolicy == "" {
		tiePolicy = TieIndexOrder
	}

	cols, err := mat_.ColsFromRows(x, dims)
	if err != nil {
		return nil, err
	}

	// pad each column so the unrolled distance pass has no tail
	n := len(x)
	padded := (n + floatsunrolled.UnrollBatch - 1) / floatsunrolled.UnrollBatch * floatsunrolled.UnrollBatch
	for j := range cols {
		if len(cols[j]) < padded {
			cols[j] = append(cols[j], make([]float64, padded-len(cols[j]))...)
		}
	}

	return &Selector{
		cols:      cols,
		n:         n,
		dims:      dims,
		tiePolicy: tiePolicy,
	}, nil
}

// Len returns the number of training points.
func (s *Selector) Len() int {
	return s.n
}

// Select returns the k nearest training points to the query by euclidean
// distance. Selection is stable so ties at the boundary are resolved by
// original index order, or included wholesale under TieIncludeAll.
func (s *Selector) Select(query []float64, k int) (*Neighborhood, error) {
	if len(query) != s.dims {
		return nil, fmt.Errorf("query has %d coordinates, expected %d, %w", len(query), s.dims, ErrInvalidDimension)
	}
	if k < 1 || k > s.n {
		return nil, fmt.Errorf("k of %d with %d training points, %w", k, s.n, ErrInvalidNeighborhoodSize)
	}

	sq := make([]float64, len(s.cols[0]))
	for j := 0; j < s.dims; j++ {
		floatsunrolled.AddSqConstDiffTo(sq, query[j], s.cols[j])
	}

	idx := make([]int, s.n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return sq[idx[a]] < sq[idx[b]]
	})

	boundary := sq[idx[k-1]]
	if s.tiePolicy == TieIncludeAll {
		for k < s.n && sq[idx[k]] == boundary {
			k++
		}
	}

	indexes := make([]int, k)
	dists := make([]float64, k)
	copy(indexes, idx[:k])
	for i, id := range indexes {
		dists[i] = math.Sqrt(sq[id])
	}

	return &Neighborhood{
		Indexes:   indexes,
		Distances: dists,
		Bandwidth: dists[k-1],
	}, nil
}
