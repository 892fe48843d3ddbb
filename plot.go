package bayesridge

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineShrinkage generates an echart multi-line chart tracking each series across
// the prior variance grid. The input y is a slice of series that must have the
// same length as the tau slice.
func LineShrinkage(title string, seriesName []string, taus []float64, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	xaxis := make([]string, 0, len(taus))
	for _, tau := range taus {
		xaxis = append(xaxis, strconv.FormatFloat(tau, 'g', 4, 64))
	}

	lineData := make([][]opts.LineData, len(y))
	for i := 0; i < len(y); i++ {
		lineData[i] = make([]opts.LineData, 0, len(y[i]))
		for j := 0; j < len(y[i]); j++ {
			lineData[i] = append(lineData[i], opts.LineData{Value: y[i][j]})
		}
	}

	line = line.SetXAxis(xaxis)
	for i, series := range seriesName {
		line = line.AddSeries(series, lineData[i])
	}

	return line
}

// PlotShrinkage uses the Apache Echarts library to generate an html page showing
// each coefficient estimate shrinking across the prior variance grid along with
// the per fit coefficient of determination.
func (s *Sweep) PlotShrinkage(w io.Writer) error {
	if s.results == nil {
		return ErrNoResults
	}

	taus := s.results.Taus()
	paths := s.results.CoefficientPaths()

	seriesName := make([]string, 0, len(paths)+1)
	series := make([][]float64, 0, len(paths)+1)
	if s.opt.FitIntercept {
		intercepts := make([]float64, 0, len(s.results.Fits))
		for _, fit := range s.results.Fits {
			intercepts = append(intercepts, fit.Intercept)
		}
		seriesName = append(seriesName, "intercept")
		series = append(series, intercepts)
	}
	for j, path := range paths {
		name := fmt.Sprintf("x%d", j)
		if j < len(s.names) {
			name = s.names[j]
		}
		seriesName = append(seriesName, name)
		series = append(series, path)
	}

	r2 := make([]float64, 0, len(s.results.Fits))
	for _, fit := range s.results.Fits {
		r2 = append(r2, fit.R2)
	}

	page := components.NewPage()
	page.AddCharts(
		LineShrinkage("Coefficient Shrinkage", seriesName, taus, series),
		LineShrinkage("Fit R2", []string{"R2"}, taus, [][]float64{r2}),
	)
	return page.Render(w)
}
