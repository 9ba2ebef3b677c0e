package loess

import (
	"fmt"
	"os"
	"runtime/debug"
	"testing"

	"github.com/aouyang1/go-loess/dataset"
	"github.com/aouyang1/go-loess/models"
)

func generateExampleSeries() ([][]float64, []float64) {
	n := 300
	x := univariateRows(dataset.GenerateGrid(n, 0.0, 30.0))
	y := dataset.GenerateWaveY(x, 8.5, 12.0, 1.5).
		Add(dataset.GenerateLinearY(x, 20.0, []float64{0.5})).
		Add(dataset.GenerateNoise(n, 1.2, 1234)).
		InjectOutliers(40.0, n/4, n/2, n*3/4)

	return x, y
}

func runSmootherExample(opt *Options, x [][]float64, y []float64, filename string) error {
	l, err := New(opt)
	if err != nil {
		return err
	}
	if err := l.Fit(x, y); err != nil {
		return err
	}

	if _, err := l.ModelEq(); err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	return l.PlotFit(file, nil)
}

func recoverSmootherPanic(t *testing.T) {
	if r := recover(); r != nil {
		if t != nil {
			t.Errorf("panic: %v\n", r)
		} else {
			fmt.Printf("panic: %v\n", r)
		}
		debug.PrintStack()
	}
}

func setupWithOutliers() ([][]float64, []float64, *Options) {
	x, y := generateExampleSeries()

	opt := &Options{
		Span:                 0.25,
		Degree:               models.DegreeQuadratic,
		RobustnessIterations: 4,
	}
	return x, y, opt
}

func Example_smootherWithOutliers() {
	x, y, opt := setupWithOutliers()

	defer recoverSmootherPanic(nil)

	if err := runSmootherExample(opt, x, y, "examples/smoother.html"); err != nil {
		panic(err)
	}
	// Output:
}

func Example_smootherNonRobust() {
	x, y, opt := setupWithOutliers()
	opt.RobustnessIterations = 0

	defer recoverSmootherPanic(nil)

	if err := runSmootherExample(opt, x, y, "examples/smoother_non_robust.html"); err != nil {
		panic(err)
	}
	// Output:
}

func Example_smootherAutoSpan() {
	x, y, _ := setupWithOutliers()

	defer recoverSmootherPanic(nil)

	a, err := NewAutoLoess(&AutoOptions{
		Spans: []float64{0.15, 0.25, 0.5, 0.8},
		CV:    CVKFold,
		Folds: 5,
	})
	if err != nil {
		panic(err)
	}
	if err := a.Fit(x, y); err != nil {
		panic(err)
	}

	file, err := os.Create("examples/smoother_auto_span.html")
	if err != nil {
		panic(err)
	}
	if err := a.Best().PlotFit(file, nil); err != nil {
		panic(err)
	}
	// Output:
}
