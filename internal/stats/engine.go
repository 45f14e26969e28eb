// Package stats computes descriptive statistics over a one-dimensional sample:
// ordering, sum, mean, population standard deviation, equal-width intervals and
// plot coordinates for the empirical and the fitted normal distribution.
//
// An Engine is meant for a single owner and is not safe for concurrent use.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"statistic_analyzer/internal/sample"
)

// Engine owns a sample and everything derived from it. The zero value is an
// engine with an empty sample.
//
// Mean and standard deviation are cached once computed. Any mutation of the
// sample resets both caches and drops the built intervals, so callers re-run
// Mean, StandardDeviation and BuildIntervals after SetSample or EraseValue.
type Engine struct {
	sample        []float64
	intervalCount int
	dispersion    float64

	intervals []Interval

	mean         float64
	deviation    float64
	hasMean      bool
	hasDeviation bool
}

// NewEngine returns an engine holding a copy of values.
func NewEngine(values []float64) *Engine {
	e := &Engine{}
	e.SetSample(values)
	return e
}

// ReadFromSource replaces the sample with the numbers read from path. An
// unreadable file leaves the engine with an empty sample.
func (e *Engine) ReadFromSource(path string) {
	e.SetSample(sample.Read(path))
}

// SetSample replaces the sample with a copy of values. The sample is neither
// sorted nor binned.
func (e *Engine) SetSample(values []float64) {
	e.sample = append([]float64(nil), values...)
	e.dispersion = 0
	e.invalidate()
}

// Sample returns a copy of the sample in its current order.
func (e *Engine) Sample() []float64 {
	return append([]float64(nil), e.sample...)
}

// Size is the number of values in the sample.
func (e *Engine) Size() int { return len(e.sample) }

// IsGood reports whether the sample is non-empty.
func (e *Engine) IsGood() bool { return len(e.sample) != 0 }

// SetIntervalCount records the number of intervals used by the next
// BuildIntervals call.
func (e *Engine) SetIntervalCount(n int) { e.intervalCount = n }

// IntervalCount is the count recorded by SetIntervalCount or Rebin.
func (e *Engine) IntervalCount() int { return e.intervalCount }

// DispersionRange is max-min as of the last Sort.
func (e *Engine) DispersionRange() float64 { return e.dispersion }

// Minimum returns the first value of the sample, which is the smallest once
// the sample is sorted. It is 0 for an empty sample.
func (e *Engine) Minimum() float64 {
	if len(e.sample) == 0 {
		return 0
	}
	return e.sample[0]
}

// Maximum returns the last value of the sample, which is the largest once the
// sample is sorted. It is 0 for an empty sample.
func (e *Engine) Maximum() float64 {
	if len(e.sample) == 0 {
		return 0
	}
	return e.sample[len(e.sample)-1]
}

// Sort orders the sample ascending and refreshes the dispersion range.
func (e *Engine) Sort() {
	sort.Float64s(e.sample)
	e.dispersion = e.Maximum() - e.Minimum()
}

// EraseValue removes the first value equal to v and reports whether one was
// found.
func (e *Engine) EraseValue(v float64) bool {
	for i, x := range e.sample {
		if x == v {
			e.sample = append(e.sample[:i], e.sample[i+1:]...)
			e.invalidate()
			return true
		}
	}
	return false
}

// Sum adds up the sample; an empty sample sums to 0.
func (e *Engine) Sum() float64 {
	return floats.Sum(e.sample)
}

// Mean returns the arithmetic mean and caches it for StandardDeviation and
// GraphNormalDistributionData. The mean of an empty sample is NaN.
func (e *Engine) Mean() float64 {
	e.mean = e.Sum() / float64(len(e.sample))
	e.hasMean = true
	return e.mean
}

// StandardDeviation returns the population standard deviation around the
// cached mean. It is 0 until Mean has been computed for the current sample.
func (e *Engine) StandardDeviation() float64 {
	if !e.hasMean || math.IsNaN(e.mean) {
		return 0
	}
	e.deviation = math.Sqrt(stat.MomentAbout(2, e.sample, e.mean, nil))
	e.hasDeviation = true
	return e.deviation
}

// Variance is the square of StandardDeviation.
func (e *Engine) Variance() float64 {
	d := e.StandardDeviation()
	return d * d
}

func (e *Engine) invalidate() {
	e.hasMean, e.hasDeviation = false, false
	e.intervals = nil
}
