package neighbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func univariate(vals ...float64) [][]float64 {
	x := make([][]float64, len(vals))
	for i, v := range vals {
		x[i] = []float64{v}
	}
	return x
}

func TestNewSelector(t *testing.T) {
	testData := map[string]struct {
		x         [][]float64
		dims      int
		tiePolicy TiePolicy
		err       error
	}{
		"valid":          {univariate(1, 2, 3), 1, TieIndexOrder, nil},
		"default policy": {univariate(1, 2, 3), 1, TiePolicy(""), nil},
		"unknown policy": {univariate(1, 2, 3), 1, TiePolicy("closest-last"), ErrUnknownTiePolicy},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s, err := NewSelector(td.x, td.dims, td.tiePolicy)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, len(td.x), s.Len())
		})
	}
}

func TestSelect(t *testing.T) {
	testData := map[string]struct {
		x         [][]float64
		query     []float64
		k         int
		err       error
		indexes   []int
		bandwidth float64
	}{
		"query arity mismatch": {
			x:     univariate(1, 2, 3),
			query: []float64{1.0, 2.0},
			k:     2,
			err:   ErrInvalidDimension,
		},
		"k too small": {
			x:     univariate(1, 2, 3),
			query: []float64{1.0},
			k:     0,
			err:   ErrInvalidNeighborhoodSize,
		},
		"k too large": {
			x:     univariate(1, 2, 3),
			query: []float64{1.0},
			k:     4,
			err:   ErrInvalidNeighborhoodSize,
		},
		"nearest two": {
			x:         univariate(0, 1, 2, 10),
			query:     []float64{1.1},
			k:         2,
			indexes:   []int{1, 2},
			bandwidth: 0.9,
		},
		"full span": {
			x:         univariate(0, 1, 2),
			query:     []float64{0.0},
			k:         3,
			indexes:   []int{0, 1, 2},
			bandwidth: 2.0,
		},
		"tie at boundary by index order": {
			// points at distance 1 on both sides of the query
			x:         univariate(1, 3, 2),
			query:     []float64{2.0},
			k:         2,
			indexes:   []int{2, 0},
			bandwidth: 1.0,
		},
		"coincident points zero bandwidth": {
			x:         univariate(5, 5, 5),
			query:     []float64{5.0},
			k:         3,
			indexes:   []int{0, 1, 2},
			bandwidth: 0.0,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s, err := NewSelector(td.x, len(td.x[0]), TieIndexOrder)
			require.Nil(t, err)

			nb, err := s.Select(td.query, td.k)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.indexes, nb.Indexes)
			assert.InDelta(t, td.bandwidth, nb.Bandwidth, 1e-12)
			assert.Len(t, nb.Distances, len(td.indexes))
		})
	}
}

func TestSelectMultiDim(t *testing.T) {
	x := [][]float64{
		{0.0, 0.0},
		{3.0, 4.0},
		{1.0, 1.0},
		{6.0, 8.0},
	}
	s, err := NewSelector(x, 2, TieIndexOrder)
	require.Nil(t, err)

	nb, err := s.Select([]float64{0.0, 0.0}, 3)
	require.Nil(t, err)
	assert.Equal(t, []int{0, 2, 1}, nb.Indexes)
	assert.InDelta(t, 5.0, nb.Bandwidth, 1e-12)
	assert.InDelta(t, 0.0, nb.Distances[0], 1e-12)
}

func TestSelectTieIncludeAll(t *testing.T) {
	// indexes 0 and 1 tie at distance 1 from the query
	x := univariate(1, 3, 2)
	s, err := NewSelector(x, 1, TieIncludeAll)
	require.Nil(t, err)

	nb, err := s.Select([]float64{2.0}, 2)
	require.Nil(t, err)
	assert.Equal(t, []int{2, 0, 1}, nb.Indexes)
	assert.InDelta(t, 1.0, nb.Bandwidth, 1e-12)
}

func TestSelectSupersetAcrossSpans(t *testing.T) {
	x := univariate(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	s, err := NewSelector(x, 1, TieIndexOrder)
	require.Nil(t, err)

	query := []float64{4.5}
	var prev *Neighborhood
	for k := 2; k <= 10; k += 2 {
		nb, err := s.Select(query, k)
		require.Nil(t, err)
		if prev != nil {
			assert.Subset(t, nb.Indexes, prev.Indexes, "k %d", k)
			assert.GreaterOrEqual(t, nb.Bandwidth, prev.Bandwidth, "k %d", k)
		}
		prev = nb
	}
}
