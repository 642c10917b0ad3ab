// Package stats provides the descriptive statistics used by the report
// pipeline.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Percentile calculates the p-th percentile (0-100) of a sorted slice by
// linear interpolation between the closest order statistics.
// The slice must already be sorted in ascending order.
// Returns NaN if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	p = math.Max(0, math.Min(100, p))
	h := float64(n-1) * p / 100
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Sorted returns an ascending copy of values.
func Sorted(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// Median returns the 50th percentile, averaging the two middle values for
// even-sized inputs.
func Median(values []float64) float64 {
	return Percentile(Sorted(values), 50)
}

// Min returns the smallest value, or NaN for an empty slice.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return floats.Min(values)
}

// Max returns the largest value, or NaN for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return floats.Max(values)
}

// HasNaN reports whether any value is NaN.
func HasNaN(values []float64) bool {
	return floats.HasNaN(values)
}
