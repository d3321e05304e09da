package tsbench

import (
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/tsbench/go-tsbench/bootstrap"
	"github.com/tsbench/go-tsbench/dataset"
	"github.com/tsbench/go-tsbench/models"
)

func generateForecastSeries() []float64 {
	// create a daily sine wave at hourly with two weeks plus a mild trend
	hours := 14 * 24
	t := dataset.GenerateT(hours, time.Hour, time.Now)
	y := make(dataset.Series, hours)

	period := 86400.0
	rnd := rand.New(rand.NewPCG(42, 42))
	y.Add(dataset.GenerateConstY(hours, 98.3)).
		Add(dataset.GenerateWaveY(t, 10.5, period, 1.0, 2*60*60)).
		Add(dataset.GenerateNoise(rnd, hours, 3.2))
	for i := range y {
		y[i] += 0.05 * float64(i)
	}
	return y
}

func runForecastExample(opt *Options, y []float64, horizon int, filename string) error {
	f, err := New(opt)
	if err != nil {
		return err
	}
	if err := f.Fit(y, nil, horizon); err != nil {
		return err
	}

	res, err := f.Predict()
	if err != nil {
		return err
	}
	intervals, err := f.PredictInterval(0.5, 0.9)
	if err != nil {
		return err
	}

	if err := os.MkdirAll("examples", 0o755); err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return LineForecastInterval(y, res, intervals).Render(file)
}

func Example_forecasterNaive() {
	y := generateForecastSeries()

	if err := runForecastExample(nil, y, 24, "examples/forecaster_naive.html"); err != nil {
		panic(err)
	}
	// Output:
}

func Example_bootstrapSamples() {
	y := generateForecastSeries()

	mbb := bootstrap.NewMovingBlockBootstrap(4, 48)
	samples, err := mbb.FitTransform(y)
	if err != nil {
		panic(err)
	}

	pos := make([]int, len(y))
	for i := range pos {
		pos[i] = i
	}
	names := make([]string, 0, len(samples)+1)
	series := make([][]float64, 0, len(samples)+1)
	names = append(names, "Actual")
	series = append(series, y)
	for _, sample := range samples {
		names = append(names, "Sample "+strconv.Itoa(sample.ID))
		series = append(series, sample.Values)
	}

	if err := os.MkdirAll("examples", 0o755); err != nil {
		panic(err)
	}
	file, err := os.Create("examples/bootstrap_samples.html")
	if err != nil {
		panic(err)
	}
	defer file.Close()

	if err := LineSeries("Moving Block Bootstrap", names, pos, series).Render(file); err != nil {
		panic(err)
	}
	// Output:
}

func Example_forecasterTrend() {
	y := generateForecastSeries()

	opt := &Options{
		Forecaster: models.NewTrend(),
		Bootstrap:  bootstrap.NewMovingBlockBootstrap(25, 48),
	}
	if err := runForecastExample(opt, y, 24, "examples/forecaster_trend.html"); err != nil {
		panic(err)
	}
	// Output:
}
