package dataset

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// GenerateGrid produces n evenly spaced univariate points spanning min to max.
func GenerateGrid(n int, min, max float64) []float64 {
	x := make([]float64, n)
	if n == 1 {
		x[0] = min
		return x
	}
	return floats.Span(x, min, max)
}

// GenerateRandomPoints produces n predictor rows of the requested arity drawn
// uniformly from [min, max) using a deterministic seeded source.
func GenerateRandomPoints(n, dims int, min, max float64, seed uint64) [][]float64 {
	rnd := rand.New(rand.NewPCG(seed, seed))
	x := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, dims)
		for j := 0; j < dims; j++ {
			row[j] = min + (max-min)*rnd.Float64()
		}
		x[i] = row
	}
	return x
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

// InjectOutliers shifts the responses at the given indexes by mag producing a
// dataset with known extreme points for robustness testing.
func (s Series) InjectOutliers(mag float64, idxs ...int) Series {
	for _, idx := range idxs {
		if idx >= 0 && idx < len(s) {
			s[idx] += mag
		}
	}
	return s
}

// GenerateLinearY evaluates intercept + slope . x for each predictor row.
func GenerateLinearY(x [][]float64, intercept float64, slope []float64) Series {
	y := make([]float64, 0, len(x))
	for _, row := range x {
		val := intercept
		for j, coord := range row {
			val += slope[j] * coord
		}
		y = append(y, val)
	}
	return Series(y)
}

// GenerateWaveY evaluates a sine wave over the first predictor coordinate.
func GenerateWaveY(x [][]float64, amp, period, phase float64) Series {
	y := make([]float64, 0, len(x))
	for _, row := range x {
		y = append(y, amp*math.Sin(2.0*math.Pi/period*(row[0]+phase)))
	}
	return Series(y)
}

// GenerateNoise produces n gaussian noise values scaled by noiseScale using a
// deterministic seeded source.
func GenerateNoise(n int, noiseScale float64, seed uint64) Series {
	rnd := rand.New(rand.NewPCG(seed, seed))
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, noiseScale*rnd.NormFloat64())
	}
	return Series(y)
}
