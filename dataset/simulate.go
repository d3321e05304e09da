package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rickar/cal/v2"
	"gonum.org/v1/gonum/floats"
)

// GenerateT creates n evenly spaced time points ending at the current time
// truncated to the minute.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func (s Series) SetConst(t []time.Time, val float64, start, end time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		if (t[i].After(start) || t[i].Equal(start)) && t[i].Before(end) {
			s[i] = val
		}
	}
	return s
}

func (s Series) MaskWithWeekend(t []time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		switch t[i].Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			s[i] = 0.0
		}
	}
	return s
}

// MaskWithHoliday zeroes out all points that fall outside the observed day
// of the given holiday, e.g. us.ChristmasDay.
func (s Series) MaskWithHoliday(t []time.Time, hol *cal.Holiday) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		_, observed := hol.Calc(t[i].Year())
		oy, om, od := observed.Date()
		ty, tm, td := t[i].In(observed.Location()).Date()
		if oy != ty || om != tm || od != td {
			s[i] = 0.0
		}
	}
	return s
}

func (s Series) MaskWithTimeRange(start, end time.Time, t []time.Time) Series {
	n := len(s)
	for i := 0; i < n; i++ {
		if t[i].Before(start) || t[i].After(end) {
			s[i] = 0.0
		}
	}
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

func GenerateNoise(rnd *rand.Rand, n int, noiseScale float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rnd.NormFloat64()*noiseScale)
	}
	return Series(y)
}

// GenerateLabeledPanel creates a deterministic classification panel with
// numPerClass instances per class. Each class k is a sine wave whose
// amplitude is amps[k] plus gaussian noise, labeled "class_k". Useful for
// exercising the evaluation harness without real data.
func GenerateLabeledPanel(numPerClass, seriesLen int, amps []float64, noiseScale float64, seed uint64) (*Panel, Table) {
	rnd := rand.New(rand.NewPCG(seed, seed))

	n := numPerClass * len(amps)
	ids := make([]string, 0, n)
	series := make([][]float64, 0, n)
	labels := make(Table, 0, n)
	for k, amp := range amps {
		label := fmt.Sprintf("class_%d", k)
		for i := 0; i < numPerClass; i++ {
			s := make(Series, seriesLen)
			for j := 0; j < seriesLen; j++ {
				s[j] = amp * math.Sin(2.0*math.Pi*float64(j)/float64(seriesLen))
			}
			s.Add(GenerateNoise(rnd, seriesLen, noiseScale))
			ids = append(ids, fmt.Sprintf("%s_%d", label, i))
			series = append(series, s)
			labels = append(labels, label)
		}
	}
	return &Panel{IDs: ids, Series: series}, labels
}
