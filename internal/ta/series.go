// Package ta computes technical indicator series over daily bars.
// All functions are pure: no I/O, no shared state. Positions a formula
// cannot produce (insufficient history, zero denominators) carry NaN.
package ta

import "math"

// nans returns a slice of n NaN values.
func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// MA is the simple rolling mean over the trailing n values.
// The first n-1 positions, and any window containing NaN, are NaN.
func MA(data []float64, n int) []float64 {
	out := nans(len(data))
	if n <= 0 {
		return out
	}
	for i := n - 1; i < len(data); i++ {
		sum := 0.0
		valid := true
		for j := i - n + 1; j <= i; j++ {
			if math.IsNaN(data[j]) {
				valid = false
				break
			}
			sum += data[j]
		}
		if valid {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// ema applies recursive exponential smoothing with the given alpha,
// seeding from the first non-NaN value (no warm-up bias correction).
func ema(data []float64, alpha float64) []float64 {
	out := nans(len(data))
	prev := math.NaN()
	for i, v := range data {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(prev) {
			prev = v
		} else {
			prev = alpha*v + (1-alpha)*prev
		}
		out[i] = prev
	}
	return out
}

// EMASpan is ema with alpha = 2/(span+1).
func EMASpan(data []float64, span int) []float64 {
	return ema(data, 2.0/(float64(span)+1.0))
}

// EMACom is ema with alpha = 1/(1+com).
func EMACom(data []float64, com float64) []float64 {
	return ema(data, 1.0/(1.0+com))
}

// Stddev is the rolling sample standard deviation over n values.
func Stddev(data []float64, n int) []float64 {
	out := nans(len(data))
	if n <= 1 {
		return out
	}
	for i := n - 1; i < len(data); i++ {
		sum := 0.0
		valid := true
		for j := i - n + 1; j <= i; j++ {
			if math.IsNaN(data[j]) {
				valid = false
				break
			}
			sum += data[j]
		}
		if !valid {
			continue
		}
		mean := sum / float64(n)
		ss := 0.0
		for j := i - n + 1; j <= i; j++ {
			d := data[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(n-1))
	}
	return out
}

// RollSum is the rolling sum over n values, NaN until the window is full.
func RollSum(data []float64, n int) []float64 {
	out := nans(len(data))
	for i := n - 1; i < len(data); i++ {
		sum := 0.0
		valid := true
		for j := i - n + 1; j <= i; j++ {
			if math.IsNaN(data[j]) {
				valid = false
				break
			}
			sum += data[j]
		}
		if valid {
			out[i] = sum
		}
	}
	return out
}

// RollMin is the rolling minimum over n values.
func RollMin(data []float64, n int) []float64 {
	out := nans(len(data))
	for i := n - 1; i < len(data); i++ {
		min := math.Inf(1)
		valid := true
		for j := i - n + 1; j <= i; j++ {
			if math.IsNaN(data[j]) {
				valid = false
				break
			}
			if data[j] < min {
				min = data[j]
			}
		}
		if valid {
			out[i] = min
		}
	}
	return out
}

// RollMax is the rolling maximum over n values.
func RollMax(data []float64, n int) []float64 {
	out := nans(len(data))
	for i := n - 1; i < len(data); i++ {
		max := math.Inf(-1)
		valid := true
		for j := i - n + 1; j <= i; j++ {
			if math.IsNaN(data[j]) {
				valid = false
				break
			}
			if data[j] > max {
				max = data[j]
			}
		}
		if valid {
			out[i] = max
		}
	}
	return out
}

// Shift moves values forward by k positions, filling the head with NaN.
func Shift(data []float64, k int) []float64 {
	out := nans(len(data))
	for i := k; i < len(data); i++ {
		out[i] = data[i-k]
	}
	return out
}

// Delta is the one-step difference; position 0 is NaN.
func Delta(data []float64) []float64 {
	out := nans(len(data))
	for i := 1; i < len(data); i++ {
		out[i] = data[i] - data[i-1]
	}
	return out
}
