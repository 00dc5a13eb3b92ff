// Package stats holds the descriptive statistics shared by the cleaner and
// the analysis reports.
package stats

import (
	"math"
	"sort"

	"b2b-market-scraper/internal/models"
)

// Sorted returns a sorted copy of values.
func Sorted(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// Quantile returns the q-quantile of sorted using linear interpolation
// between closest ranks. NaN for an empty input.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the sample standard deviation (n-1 denominator); NaN below two
// samples.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return math.NaN()
	}
	m := Mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// Describe summarises values. Non-finite results are left nil.
func Describe(values []float64) models.Stats {
	if len(values) == 0 {
		return models.Stats{}
	}
	sorted := Sorted(values)
	return models.Stats{
		Count:  len(values),
		Mean:   models.Finite(Mean(values)),
		Median: models.Finite(Quantile(sorted, 0.5)),
		Min:    models.Finite(sorted[0]),
		Max:    models.Finite(sorted[len(sorted)-1]),
		Std:    models.Finite(StdDev(values)),
	}
}

// Round2 rounds v to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
