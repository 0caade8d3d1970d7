package features

import "math"

// Helpers for windowed feature math. Semantics intentionally mirror the
// training pipeline: momentum/trend is the mean of step-over-step
// fractional changes, deviations are sample standard deviations, and
// anything undefined on an empty or single-element window is 0.

// meanStepChange returns the mean of (v[i]-v[i-1])/v[i-1] across the
// series. Steps whose previous value is 0 are skipped; fewer than two
// values, or no valid steps, yield 0.
func meanStepChange(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	var n int
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		sum += (values[i] - prev) / prev
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// mean returns the arithmetic mean, or 0 for an empty series.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd returns the sample standard deviation (ddof=1), or 0 when the
// series has fewer than two values.
func sampleStd(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// delta returns newest minus oldest, or 0 when fewer than two values.
func delta(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return values[len(values)-1] - values[0]
}

// ewm returns the final value of an adjusted exponentially weighted moving
// average with the given span (alpha = 2/(span+1)), or 0 for an empty
// series. "Adjusted" means each observation is weighted (1-alpha)^age and
// the weights are normalized, matching how the models were trained.
func ewm(values []float64, span int) float64 {
	if len(values) == 0 {
		return 0
	}
	alpha := 2.0 / (float64(span) + 1.0)
	decay := 1.0 - alpha
	var num, den float64
	weight := 1.0
	for i := len(values) - 1; i >= 0; i-- {
		num += weight * values[i]
		den += weight
		weight *= decay
	}
	return num / den
}
