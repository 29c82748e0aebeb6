// Package aggregate implements the reusable regrouping patterns the views
// are assembled from: grouped dispersion, categorical frequency, calendar
// resampling, and two-key pivoting. Missing cells are excluded from every
// statistic; they never coerce to zero.
package aggregate

import (
	"math"

	"munipipe/internal/tabular"
)

// collect extracts the present numeric values from a slice of cells.
func collect(cells []tabular.Value) []float64 {
	var out []float64
	for _, c := range cells {
		if f, ok := c.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// mean returns the arithmetic mean, or missing for an empty input.
func mean(values []float64) tabular.Value {
	if len(values) == 0 {
		return tabular.Missing()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return tabular.Number(sum / float64(len(values)))
}

// sampleStd returns the sample standard deviation. The dispersion of fewer
// than two observations is undefined, so it is missing, not zero.
func sampleStd(values []float64) tabular.Value {
	n := len(values)
	if n < 2 {
		return tabular.Missing()
	}
	m, _ := mean(values).Float()
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return tabular.Number(math.Sqrt(sum / float64(n-1)))
}

// sum returns the total of the values, or missing for an empty input.
func sum(values []float64) tabular.Value {
	if len(values) == 0 {
		return tabular.Missing()
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return tabular.Number(total)
}
