package stats

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// ShowStatistic writes every sample value followed by sep, then a
// "(statistic size: N)" line. Values are written with the fewest digits that
// parse back to the same float64.
func (e *Engine) ShowStatistic(w io.Writer, sep rune) error {
	bw := bufio.NewWriter(w)
	for _, v := range e.sample {
		bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		bw.WriteRune(sep)
	}
	fmt.Fprintf(bw, "(statistic size: %d)\n", len(e.sample))
	return bw.Flush()
}

// ShowStatisticIntervals writes one line per built interval:
//
//	Interval #1	[min: 1, max: 2.8, mid: 1.9]:	1	2	[n = 2, n/N = 0.2]
//
// Numbers are printed with 4 significant digits.
func (e *Engine) ShowStatisticIntervals(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, in := range e.intervals {
		fmt.Fprintf(bw, "Interval #%d\t[min: %.4g, max: %.4g, mid: %.4g]:\t", i+1, in.Low, in.High, in.Mid())
		for _, v := range in.Members {
			fmt.Fprintf(bw, "%.4g\t", v)
		}
		fmt.Fprintf(bw, "[n = %d, n/N = %.4g]\n", in.Count(), in.RelativeFrequency)
	}
	return bw.Flush()
}
