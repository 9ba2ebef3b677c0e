package models

import (
	"testing"

	mat_ "github.com/aouyang1/go-loess/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWLSOptionsValidate(t *testing.T) {
	testData := map[string]struct {
		opt      *WLSOptions
		expected *WLSOptions
	}{
		"nil":          {nil, NewDefaultWLSOptions()},
		"zero backfill": {
			&WLSOptions{},
			&WLSOptions{RankTolerance: DefaultRankTolerance},
		},
		"valid": {
			&WLSOptions{RankTolerance: 1e-8},
			&WLSOptions{RankTolerance: 1e-8},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			opt, err := td.opt.Validate()
			require.Nil(t, err)
			assert.Equal(t, td.expected, opt)
		})
	}
}

func TestWLSRegression(t *testing.T) {
	tol := 1e-8
	testData := map[string]struct {
		x       [][]float64
		y       []float64
		weights []float64
		err     error
		coef    []float64
	}{
		"unweighted exact line": {
			x: [][]float64{
				{1, 0},
				{1, 1},
				{1, 2},
			},
			y:    []float64{1, 3, 5},
			coef: []float64{1.0, 2.0},
		},
		"zero weight removes outlier": {
			x: [][]float64{
				{1, 0},
				{1, 1},
				{1, 2},
				{1, 3},
			},
			y:       []float64{1, 3, 5, 100},
			weights: []float64{1, 1, 1, 0},
			coef:    []float64{1.0, 2.0},
		},
		"weighted multi feature": {
			x: [][]float64{
				{1, 0, 0},
				{1, 3, 5},
				{1, 9, 20},
				{1, 12, 6},
				{1, 15, 10},
			},
			y:       []float64{2, 31, 109, 62, 87},
			weights: []float64{0.5, 1, 0.25, 1, 0.75},
			coef:    []float64{2.0, 3.0, 4.0},
		},
		"too few rows": {
			x: [][]float64{
				{1, 0},
			},
			y:   []float64{1},
			err: ErrSingularFit,
		},
		"coincident predictors": {
			x: [][]float64{
				{1, 2},
				{1, 2},
				{1, 2},
			},
			y:   []float64{1, 2, 3},
			err: ErrSingularFit,
		},
		"all weights zero": {
			x: [][]float64{
				{1, 0},
				{1, 1},
				{1, 2},
			},
			y:       []float64{1, 3, 5},
			weights: []float64{0, 0, 0},
			err:     ErrSingularFit,
		},
		"negative weight": {
			x: [][]float64{
				{1, 0},
				{1, 1},
				{1, 2},
			},
			y:       []float64{1, 3, 5},
			weights: []float64{1, -1, 1},
			err:     ErrNegativeWeight,
		},
		"target length mismatch": {
			x: [][]float64{
				{1, 0},
				{1, 1},
			},
			y:   []float64{1},
			err: ErrTargetLenMismatch,
		},
		"weight length mismatch": {
			x: [][]float64{
				{1, 0},
				{1, 1},
				{1, 2},
			},
			y:       []float64{1, 3, 5},
			weights: []float64{1, 1},
			err:     ErrWeightLenMismatch,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, err := mat_.NewDenseFromArray(td.x)
			require.Nil(t, err)

			model, err := NewWLSRegression(nil)
			require.Nil(t, err)

			err = model.Fit(x, td.y, td.weights)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)

			assert.InDeltaSlice(t, td.coef, model.Coef(), tol)
			assert.InDelta(t, td.coef[0], model.Intercept(), tol)
		})
	}
}

func TestWLSPredictPoint(t *testing.T) {
	x, err := mat_.NewDenseFromArray([][]float64{
		{1, 0},
		{1, 1},
		{1, 2},
	})
	require.Nil(t, err)

	model, err := NewWLSRegression(nil)
	require.Nil(t, err)

	_, err = model.PredictPoint([]float64{1, 4})
	require.ErrorIs(t, err, ErrNotFitted)

	require.Nil(t, model.Fit(x, []float64{1, 3, 5}, nil))

	val, err := model.PredictPoint([]float64{1, 4})
	require.Nil(t, err)
	assert.InDelta(t, 9.0, val, 1e-8)

	_, err = model.PredictPoint([]float64{1})
	require.ErrorIs(t, err, ErrFeatureLenMismatch)
}
