package loess

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/aouyang1/go-loess/dataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrPlotDims = errors.New("plotting requires a univariate model")

const DefaultPlotGridSize = 200

// LineSeries generates an echart multi-line chart for some arbitrary x/value
// combination. The input y is a slice of series that must have the same
// length as the input x slice.
func LineSeries(title string, seriesName []string, x []float64, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	lineData := make([][]opts.LineData, len(y))
	for i := 0; i < len(y); i++ {
		lineData[i] = make([]opts.LineData, 0, len(y[i]))
		for j := 0; j < len(y[i]); j++ {
			if math.IsNaN(y[i][j]) {
				continue
			}
			lineData[i] = append(lineData[i], opts.LineData{Value: y[i][j]})
		}
	}

	line = line.SetXAxis(x)
	for i, series := range seriesName {
		line = line.AddSeries(series, lineData[i])
	}

	return line
}

// LineSmoother generates an echart line chart for a fit result plotting the
// training observations along with the smoothed curve.
func LineSmoother(trainingData *dataset.Dataset, res *Results) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Smoother Fit",
			},
		),
	)

	lineDataActual := make([]opts.LineData, 0, len(trainingData.Y))
	for i := 0; i < len(trainingData.Y); i++ {
		lineDataActual = append(lineDataActual, opts.LineData{Value: trainingData.Y[i]})
	}
	lineDataSmoothed := make([]opts.LineData, 0, len(res.Smoothed))
	for i := 0; i < len(res.Smoothed); i++ {
		lineDataSmoothed = append(lineDataSmoothed, opts.LineData{Value: res.Smoothed[i]})
	}

	x := make([]float64, 0, len(trainingData.X))
	for _, row := range trainingData.X {
		x = append(x, row[0])
	}

	line.SetXAxis(x).
		AddSeries("Actual", lineDataActual).
		AddSeries("Smoothed", lineDataSmoothed)
	return line
}

// PlotOpts sets the evaluation grid resolution for the smoothed curve. By
// default the curve is sampled at DefaultPlotGridSize evenly spaced points
// across the training predictor range.
type PlotOpts struct {
	GridSize int
}

// PlotFit uses the Apache Echarts library to generate an html page showing
// the resulting fit along with the fit residual. Only univariate models can
// be plotted.
func (l *Loess) PlotFit(w io.Writer, opt *PlotOpts) error {
	if l.orig == nil {
		return ErrNotFitted
	}
	if l.opt.Dims != 1 {
		return ErrPlotDims
	}

	gridSize := DefaultPlotGridSize
	if opt != nil && opt.GridSize > 0 {
		gridSize = opt.GridSize
	}

	min := math.Inf(1)
	max := math.Inf(-1)
	for _, row := range l.orig.X {
		if row[0] < min {
			min = row[0]
		}
		if row[0] > max {
			max = row[0]
		}
	}

	grid := dataset.GenerateGrid(gridSize, min, max)
	queries := make([][]float64, len(grid))
	for i, val := range grid {
		queries[i] = []float64{val}
	}

	curveRes, err := l.Predict(queries)
	if err != nil {
		return fmt.Errorf("unable to predict smoothed curve, %w", err)
	}

	curve := make([]float64, len(grid))
	copy(curve, curveRes.Smoothed)

	trainX := make([]float64, 0, len(l.orig.X))
	for _, row := range l.orig.X {
		trainX = append(trainX, row[0])
	}

	page := components.NewPage()
	page.AddCharts(
		LineSmoother(l.orig, l.fitResults),
		LineSeries(
			"Smoothed Curve",
			[]string{"Smoothed"},
			grid,
			[][]float64{curve},
		),
		LineSeries(
			"Fit Residual",
			[]string{"Residual"},
			trainX,
			[][]float64{l.residual},
		),
	)
	return page.Render(io.MultiWriter(w))
}
