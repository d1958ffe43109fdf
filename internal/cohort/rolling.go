package cohort

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RollingMean computes a centered rolling mean of window w. Positions where
// the full window does not fit, and windows containing NaN, yield NaN. The
// window extends floor((w-1)/2) behind and the remainder ahead of each point.
func RollingMean(xs []float64, w int) []float64 {
	out := make([]float64, len(xs))
	lead := (w - 1) / 2
	for i := range xs {
		start := i - lead
		end := start + w
		if start < 0 || end > len(xs) {
			out[i] = math.NaN()
			continue
		}
		out[i] = windowMean(xs[start:end])
	}
	return out
}

// RollingCorrelation computes a centered rolling Pearson correlation of
// window w, windowed the same way as RollingMean. Positions without a full
// window, or whose window contains NaN in either series, yield NaN.
func RollingCorrelation(xs, ys []float64, w int) []float64 {
	out := make([]float64, len(xs))
	lead := (w - 1) / 2
	for i := range xs {
		start := i - lead
		end := start + w
		if start < 0 || end > len(xs) || hasNaN(xs[start:end]) || hasNaN(ys[start:end]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.Correlation(xs[start:end], ys[start:end], nil)
	}
	return out
}

func windowMean(xs []float64) float64 {
	if hasNaN(xs) {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

func hasNaN(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
