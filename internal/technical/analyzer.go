// Package technical implements the price-series analyzers: trend-cloud
// (Ichimoku), Bollinger squeeze, moving-average alignment, and the
// cup-and-handle pattern detector. Every analyzer is a pure function of
// its input series; insufficient data yields a nil signal, not an error.
package technical

import "math"

// Analyzer describes a price-series analyzer's metadata. The screening
// aggregator dispatches on Name and skips series shorter than MinBars.
type Analyzer interface {
	Name() string
	MinBars() int
	MaxScore() int
}

// sma returns the mean of values[i-window+1 .. i], or NaN when the
// window does not fit.
func sma(values []float64, i, window int) float64 {
	if i+1 < window || window <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for j := i - window + 1; j <= i; j++ {
		sum += values[j]
	}
	return sum / float64(window)
}

// stddevSample returns the sample standard deviation (n-1 denominator)
// of values[i-window+1 .. i], or NaN when the window does not fit.
func stddevSample(values []float64, i, window int) float64 {
	if i+1 < window || window < 2 {
		return math.NaN()
	}
	mean := sma(values, i, window)
	sumSq := 0.0
	for j := i - window + 1; j <= i; j++ {
		d := values[j] - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(window-1))
}

// rollingMax returns the maximum of values[i-window+1 .. i], or NaN
// when the window does not fit.
func rollingMax(values []float64, i, window int) float64 {
	if i+1 < window || window <= 0 {
		return math.NaN()
	}
	max := values[i-window+1]
	for j := i - window + 2; j <= i; j++ {
		if values[j] > max {
			max = values[j]
		}
	}
	return max
}

// rollingMin returns the minimum of values[i-window+1 .. i], or NaN
// when the window does not fit.
func rollingMin(values []float64, i, window int) float64 {
	if i+1 < window || window <= 0 {
		return math.NaN()
	}
	min := values[i-window+1]
	for j := i - window + 2; j <= i; j++ {
		if values[j] < min {
			min = values[j]
		}
	}
	return min
}

// crossedAbove reports whether fast crossed above slow within the last
// lookback bars: fast[k-1] <= slow[k-1] and fast[k] > slow[k] for some
// bar k in the window. NaN pairs are skipped.
func crossedAbove(fast, slow []float64, lookback int) bool {
	n := len(fast)
	if n != len(slow) || n < lookback+1 {
		return false
	}
	for i := 1; i <= lookback; i++ {
		k := n - i
		if math.IsNaN(fast[k]) || math.IsNaN(slow[k]) ||
			math.IsNaN(fast[k-1]) || math.IsNaN(slow[k-1]) {
			continue
		}
		if fast[k-1] <= slow[k-1] && fast[k] > slow[k] {
			return true
		}
	}
	return false
}

// argMax returns the index of the largest value in values[lo:hi].
// The caller guarantees lo < hi.
func argMax(values []float64, lo, hi int) int {
	best := lo
	for j := lo + 1; j < hi; j++ {
		if values[j] > values[best] {
			best = j
		}
	}
	return best
}

// argMin returns the index of the smallest value in values[lo:hi].
// The caller guarantees lo < hi.
func argMin(values []float64, lo, hi int) int {
	best := lo
	for j := lo + 1; j < hi; j++ {
		if values[j] < values[best] {
			best = j
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
