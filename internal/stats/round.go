package stats

import "math"

// Round rounds value to the nearest multiple of precision.
func Round(value, precision float64) float64 {
	return math.Round(value/precision) * precision
}
