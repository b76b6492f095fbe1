// Package latency summarizes probe timing samples.
package latency

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary describes a set of latency samples.
type Summary struct {
	N      int
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	P50    time.Duration
	P90    time.Duration
	P99    time.Duration
	Max    time.Duration
}

// Summarize computes a Summary. samples is not modified.
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	xs := make([]float64, len(samples))
	for i, d := range samples {
		xs[i] = float64(d)
	}
	sort.Float64s(xs)

	s := Summary{
		N:    len(xs),
		Mean: time.Duration(stat.Mean(xs, nil)),
		Min:  time.Duration(xs[0]),
		P50:  time.Duration(stat.Quantile(0.50, stat.Empirical, xs, nil)),
		P90:  time.Duration(stat.Quantile(0.90, stat.Empirical, xs, nil)),
		P99:  time.Duration(stat.Quantile(0.99, stat.Empirical, xs, nil)),
		Max:  time.Duration(xs[len(xs)-1]),
	}
	if len(xs) > 1 {
		s.StdDev = time.Duration(stat.StdDev(xs, nil))
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%s sd=%s min=%s p50=%s p90=%s p99=%s max=%s",
		s.N, s.Mean, s.StdDev, s.Min, s.P50, s.P90, s.P99, s.Max)
}
