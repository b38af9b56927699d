// Package fundamental implements the financial-ratio analyzers: return
// on equity, gross margin, leverage, and capital expenditure. Each one
// reads a FundamentalRecord and is independent of price data. An
// invalid or too-short record yields a nil signal, not an error.
package fundamental

import "math"

// Analyzer describes a fundamental analyzer's metadata.
type Analyzer interface {
	Name() string
	MaxScore() int
	MinYears() int
}

// mean of a non-empty slice
func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddevPop is the population standard deviation (n denominator).
func stddevPop(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2Slice(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = round2(v)
	}
	return out
}

func clampScore(score, max int) int {
	if score < 0 {
		return 0
	}
	if score > max {
		return max
	}
	return score
}
