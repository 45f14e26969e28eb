package stats

import (
	"errors"
	"fmt"
	"sort"
)

const (
	// lengthPrecision and frequencyPrecision are the rounding steps applied to
	// the interval width and to relative frequencies.
	lengthPrecision    = 0.001
	frequencyPrecision = 0.001

	// lastIntervalPad lifts the upper bound of the last interval above the
	// sample maximum so that the maximum itself is binned.
	lastIntervalPad = 0.01

	minDispersion = 1e-6
)

// ErrDomain is matched by every *DomainError.
var ErrDomain = errors.New("stats: sample cannot be split into intervals")

// DomainError is returned by BuildIntervals when the interval count is zero or
// the sample spans no range to split.
type DomainError struct {
	IntervalCount   int
	DispersionRange float64
}

func (e *DomainError) Error() string {
	if e.IntervalCount <= 0 {
		return fmt.Sprintf("stats: interval count is %d", e.IntervalCount)
	}
	return fmt.Sprintf("stats: dispersion range %g is too small to split into %d intervals", e.DispersionRange, e.IntervalCount)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// Interval is the half-open range [Low, High) together with the sample values
// falling inside it.
type Interval struct {
	Low, High         float64
	Members           []float64
	RelativeFrequency float64
}

// Mid is the midpoint of the range.
func (i Interval) Mid() float64 { return (i.Low + i.High) / 2 }

// Count is the number of sample values in the interval.
func (i Interval) Count() int { return len(i.Members) }

// IntervalLength returns the width of every interval but the last, rounded to
// 0.001.
func (e *Engine) IntervalLength() (float64, error) {
	if e.intervalCount <= 0 || e.dispersion <= minDispersion {
		return 0, &DomainError{IntervalCount: e.intervalCount, DispersionRange: e.dispersion}
	}
	return Round(e.dispersion/float64(e.intervalCount), lengthPrecision), nil
}

// BuildIntervals sorts the sample and splits it into IntervalCount contiguous
// intervals starting at the minimum. Every interval has width IntervalLength
// except the last one, which ends just above the maximum. A value on a
// boundary belongs to the interval it opens.
//
// An empty sample is left alone. A zero interval count or a constant sample
// yields a *DomainError.
func (e *Engine) BuildIntervals() error {
	if !e.IsGood() {
		return nil
	}
	e.Sort()
	e.intervals = nil

	length, err := e.IntervalLength()
	if err != nil {
		return err
	}

	intervals := make([]Interval, e.intervalCount)
	low := e.Minimum()
	for i := range intervals {
		high := low + length
		if i == len(intervals)-1 {
			high = e.Maximum() + lastIntervalPad
		}
		intervals[i].Low, intervals[i].High = low, high
		low = high
	}

	size := float64(len(e.sample))
	for i := range intervals {
		from := sort.SearchFloat64s(e.sample, intervals[i].Low)
		to := sort.SearchFloat64s(e.sample, intervals[i].High)
		if to < from {
			// rounding the width up can push the last lower bound past the pad
			to = from
		}
		intervals[i].Members = append([]float64(nil), e.sample[from:to]...)
		intervals[i].RelativeFrequency = Round(float64(to-from)/size, frequencyPrecision)
	}
	e.intervals = intervals
	return nil
}

// Rebin sets the interval count to n and rebuilds the intervals.
func (e *Engine) Rebin(n int) error {
	e.SetIntervalCount(n)
	return e.BuildIntervals()
}

// Intervals returns the intervals of the last successful BuildIntervals, or
// nil when the sample changed since.
func (e *Engine) Intervals() []Interval {
	if e.intervals == nil {
		return nil
	}
	out := make([]Interval, len(e.intervals))
	for i, in := range e.intervals {
		in.Members = append([]float64(nil), in.Members...)
		out[i] = in
	}
	return out
}
