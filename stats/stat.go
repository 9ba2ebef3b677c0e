package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var ErrEmptySlice = errors.New("empty slice")

// Median returns the middle value of y without mutating the input.
func Median(y []float64) (float64, error) {
	if len(y) == 0 {
		return 0.0, ErrEmptySlice
	}
	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)
	return stat.Quantile(0.5, stat.Empirical, yCopy, nil), nil
}

// MAR computes the median absolute residual which serves as the robustness
// scale estimate when downweighting outliers.
func MAR(residuals []float64) (float64, error) {
	if len(residuals) == 0 {
		return 0.0, ErrEmptySlice
	}
	abs := make([]float64, len(residuals))
	for i, r := range residuals {
		abs[i] = math.Abs(r)
	}
	sort.Float64s(abs)
	return stat.Quantile(0.5, stat.Empirical, abs, nil), nil
}

// WeightedMean computes the mean of y scaled by weights. A degenerate all-zero
// weight vector falls back to the unweighted mean so a fully downweighted
// neighborhood still produces a defined value.
func WeightedMean(y, weights []float64) (float64, error) {
	if len(y) == 0 {
		return 0.0, ErrEmptySlice
	}
	if weights == nil {
		return stat.Mean(y, nil), nil
	}

	var wsum float64
	for _, w := range weights {
		wsum += w
	}
	if wsum == 0.0 {
		return stat.Mean(y, nil), nil
	}
	return stat.Mean(y, weights), nil
}

// RMSE computes the root mean squared error between predicted and observed
// skipping pairs with NaN on either side.
func RMSE(predicted, observed []float64) (float64, error) {
	if len(predicted) == 0 || len(predicted) != len(observed) {
		return 0.0, ErrEmptySlice
	}
	var sse float64
	var cnt int
	for i := 0; i < len(predicted); i++ {
		if math.IsNaN(predicted[i]) || math.IsNaN(observed[i]) {
			continue
		}
		diff := predicted[i] - observed[i]
		sse += diff * diff
		cnt++
	}
	if cnt == 0 {
		return math.Inf(1), nil
	}
	return math.Sqrt(sse / float64(cnt)), nil
}

// DetectOutliers flags indexes of y falling outside the tukey fences derived
// from the lower and upper percentile values.
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	yCopy := make([]float64, len(y))
	copy(yCopy, y)
	sort.Float64s(yCopy)
	lowerIdx := int(math.Floor(float64(len(yCopy)-1) * lowerPerc))
	upperIdx := int(math.Ceil(float64(len(yCopy)-1) * upperPerc))

	lower := yCopy[lowerIdx]
	upper := yCopy[upperIdx]
	innerRange := upper - lower
	lower -= innerRange * tukeyFactor
	upper += innerRange * tukeyFactor

	var outlierIdx []int
	for i := 0; i < len(y); i++ {
		if y[i] >= upper || y[i] <= lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}
