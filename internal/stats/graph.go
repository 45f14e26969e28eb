package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// normalStep is the x distance between two points of the normal curve.
const normalStep = 0.01

// Points is a sequence of plot coordinates, X[i] paired with Y[i].
type Points struct {
	X, Y []float64
}

func (p *Points) add(x, y float64) {
	p.X = append(p.X, x)
	p.Y = append(p.Y, y)
}

// Len is the number of points.
func (p Points) Len() int { return len(p.X) }

// GraphStatisticData returns the empirical distribution polyline: (min, 0),
// the midpoint and relative frequency of every built interval, then (max, 0).
func (e *Engine) GraphStatisticData() Points {
	var p Points
	if !e.IsGood() {
		return p
	}
	p.add(e.Minimum(), 0)
	for _, in := range e.intervals {
		p.add(in.Mid(), in.RelativeFrequency)
	}
	p.add(e.Maximum(), 0)
	return p
}

// GraphNormalDistributionData samples the normal density fitted with the
// cached mean and standard deviation over mean±3σ, scaled by the interval
// width so it overlays the relative frequencies of GraphStatisticData.
//
// The result is empty unless Mean and StandardDeviation were computed for the
// current sample and IntervalLength succeeds.
func (e *Engine) GraphNormalDistributionData() Points {
	var p Points
	if !e.IsGood() || !e.hasMean || !e.hasDeviation || e.deviation == 0 {
		return p
	}
	h, err := e.IntervalLength()
	if err != nil {
		return p
	}

	normal := distuv.Normal{Mu: e.mean, Sigma: math.Abs(e.deviation)}
	from := e.mean - 3*math.Abs(e.deviation)
	to := e.mean + 3*math.Abs(e.deviation)
	// x is derived from the index, never accumulated
	steps := int(math.Floor((to-from)/normalStep + 1e-9))
	for i := 0; i <= steps; i++ {
		x := from + float64(i)*normalStep
		p.add(x, h*normal.Prob(x))
	}
	return p
}
