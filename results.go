package tsbench

// Results holds the ensemble point forecast. Steps are absolute positions
// into the training index, starting at the first position beyond the
// training range.
type Results struct {
	Steps    []int     `json:"steps"`
	Forecast []float64 `json:"forecast"`
}

// CoverageInterval holds the conformal lower and upper bounds per horizon
// step for one coverage level.
type CoverageInterval struct {
	Coverage float64   `json:"coverage"`
	Lower    []float64 `json:"lower"`
	Upper    []float64 `json:"upper"`
}

// IntervalResults holds conformal intervals for every requested coverage
// level, in request order.
type IntervalResults struct {
	Steps     []int              `json:"steps"`
	Intervals []CoverageInterval `json:"intervals"`
}

// At returns the interval for the given coverage level.
func (r *IntervalResults) At(coverage float64) (CoverageInterval, bool) {
	for _, interval := range r.Intervals {
		if interval.Coverage == coverage {
			return interval, true
		}
	}
	return CoverageInterval{}, false
}
