package tsbench

import (
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// missing is the echarts marker for an absent point, used to pad the actual
// and forecast series onto one shared axis.
const missing = "-"

// LineSeries generates an echart multi-line chart for some arbitrary set of
// series sharing one positional axis. All series must have the same length
// as the axis.
func LineSeries(title string, seriesName []string, pos []int, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	line = line.SetXAxis(pos)
	for i, name := range seriesName {
		lineData := make([]opts.LineData, 0, len(y[i]))
		for _, val := range y[i] {
			lineData = append(lineData, opts.LineData{Value: val})
		}
		line = line.AddSeries(name, lineData)
	}
	return line
}

// LineForecastInterval generates an echart line chart showing the training
// series, the ensemble point forecast over the horizon, and the conformal
// bounds of every coverage level.
func LineForecastInterval(y []float64, res *Results, intervals *IntervalResults) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Conformal Forecast",
			},
		),
	)

	n := len(y)
	axis := make([]int, 0, n+len(res.Steps))
	for i := 0; i < n; i++ {
		axis = append(axis, i)
	}
	axis = append(axis, res.Steps...)

	lineDataActual := make([]opts.LineData, 0, len(axis))
	for i := 0; i < n; i++ {
		lineDataActual = append(lineDataActual, opts.LineData{Value: y[i]})
	}
	for range res.Steps {
		lineDataActual = append(lineDataActual, opts.LineData{Value: missing})
	}

	pad := make([]opts.LineData, 0, n)
	for i := 0; i < n; i++ {
		pad = append(pad, opts.LineData{Value: missing})
	}

	lineDataForecast := append(append([]opts.LineData{}, pad...), forecastData(res.Forecast)...)

	line.SetXAxis(axis).
		AddSeries("Actual", lineDataActual).
		AddSeries("Forecast", lineDataForecast)
	if intervals != nil {
		for _, interval := range intervals.Intervals {
			lower := append(append([]opts.LineData{}, pad...), forecastData(interval.Lower)...)
			upper := append(append([]opts.LineData{}, pad...), forecastData(interval.Upper)...)
			name := func(bound string) string {
				return bound + " " + strconv.FormatFloat(interval.Coverage, 'g', -1, 64)
			}
			line.AddSeries(name("Lower"), lower).
				AddSeries(name("Upper"), upper)
		}
	}
	return line
}

func forecastData(vals []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(vals))
	for _, val := range vals {
		data = append(data, opts.LineData{Value: val})
	}
	return data
}
