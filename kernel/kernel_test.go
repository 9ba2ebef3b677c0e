package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernelFunc(t *testing.T) {
	testData := map[string]struct {
		kernel Kernel
		err    error
	}{
		"default":      {Kernel(""), nil},
		"tricube":      {KernelTricube, nil},
		"epanechnikov": {KernelEpanechnikov, nil},
		"triangle":     {KernelTriangle, nil},
		"gaussian":     {KernelGaussian, nil},
		"unknown":      {Kernel("boxcar"), ErrUnknownKernel},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			w, err := td.kernel.Func()
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			require.NotNil(t, w)
		})
	}
}

func TestTricube(t *testing.T) {
	testData := map[string]struct {
		dist      float64
		bandwidth float64
		expected  float64
	}{
		"zero distance":      {0.0, 2.0, 1.0},
		"at bandwidth":       {2.0, 2.0, 0.0},
		"beyond bandwidth":   {3.0, 2.0, 0.0},
		"half bandwidth":     {1.0, 2.0, 0.669921875},
		"zero bandwidth":     {0.0, 0.0, 1.0},
		"negative bandwidth": {0.0, -1.0, 1.0},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, Tricube(td.dist, td.bandwidth), 1e-12)
		})
	}
}

func TestKernelShapeLaws(t *testing.T) {
	weights := map[string]Weight{
		"tricube":      Tricube,
		"epanechnikov": Epanechnikov,
		"triangle":     Triangle,
		"gaussian":     Gaussian,
	}

	bandwidth := 5.0
	for name, w := range weights {
		t.Run(name, func(t *testing.T) {
			// maximal at zero distance
			w0 := w(0.0, bandwidth)
			assert.Greater(t, w0, 0.0)

			// monotone non-increasing with distance
			prev := w0
			for dist := 0.1; dist <= bandwidth*1.5; dist += 0.1 {
				cur := w(dist, bandwidth)
				assert.LessOrEqual(t, cur, prev+1e-12, "dist %f", dist)
				assert.GreaterOrEqual(t, cur, 0.0)
				prev = cur
			}
		})
	}
}

func TestCompactSupport(t *testing.T) {
	for _, w := range []Weight{Tricube, Epanechnikov, Triangle} {
		assert.Equal(t, 0.0, w(5.0, 5.0))
		assert.Equal(t, 0.0, w(6.0, 5.0))
	}
}

func TestBisquare(t *testing.T) {
	testData := map[string]struct {
		residual float64
		scale    float64
		expected float64
	}{
		"zero residual":     {0.0, 1.0, 1.0},
		"zero scale":        {10.0, 0.0, 1.0},
		"epsilon scale":     {10.0, RobustScaleEpsilon, 1.0},
		"at cutoff":         {6.0, 1.0, 0.0},
		"beyond cutoff":     {100.0, 1.0, 0.0},
		"negative residual": {-3.0, 1.0, 0.5625},
		"half cutoff":       {3.0, 1.0, 0.5625},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, Bisquare(td.residual, td.scale), 1e-12)
		})
	}
}

func TestHuber(t *testing.T) {
	testData := map[string]struct {
		residual float64
		scale    float64
		expected float64
	}{
		"zero residual":  {0.0, 1.0, 1.0},
		"zero scale":     {10.0, 0.0, 1.0},
		"within bound":   {1.0, 1.0, 1.0},
		"at bound":       {1.345, 1.0, 1.0},
		"outside bound":  {2.69, 1.0, 0.5},
		"large residual": {134.5, 1.0, 0.01},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, td.expected, Huber(td.residual, td.scale), 1e-12)
		})
	}
}
