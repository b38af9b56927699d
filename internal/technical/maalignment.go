package technical

import (
	"math"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// Moving-average alignment parameters.
const (
	smaShort   = 5
	smaMid     = 20
	smaLong    = 60
	smaTrend   = 120
	gcLookback = 5

	disparityOptimalMin = 5.0
	disparityOptimalMax = 15.0
	disparityOverheated = 15.0
)

// MAAlignmentAnalyzer scores the 5/20/60/120 moving-average stack:
// perfect or partial bullish ordering, recent golden crosses at each
// pair, and the displacement of price from the 20-bar average.
type MAAlignmentAnalyzer struct {
	log *logger.Logger
}

// NewMAAlignmentAnalyzer creates an MAAlignmentAnalyzer
func NewMAAlignmentAnalyzer(log *logger.Logger) *MAAlignmentAnalyzer {
	return &MAAlignmentAnalyzer{log: log}
}

func (a *MAAlignmentAnalyzer) Name() string { return contracts.FilterMAAlignment }

// MinBars is the 120-bar average plus margin
func (a *MAAlignmentAnalyzer) MinBars() int { return 130 }

func (a *MAAlignmentAnalyzer) MaxScore() int { return 95 }

// Analyze evaluates the alignment state on the latest bar. Returns nil
// when the series is too short for the 120-bar average.
func (a *MAAlignmentAnalyzer) Analyze(series contracts.PriceSeries) *contracts.MAAlignmentSignal {
	n := len(series)
	if n < a.MinBars() {
		return nil
	}

	closes := series.Closes()

	sma5 := rollingSMASeries(closes, smaShort)
	sma20 := rollingSMASeries(closes, smaMid)
	sma60 := rollingSMASeries(closes, smaLong)
	sma120 := rollingSMASeries(closes, smaTrend)

	last := n - 1
	if math.IsNaN(sma120[last]) {
		return nil
	}

	currentPrice := closes[last]
	disparity := (currentPrice - sma20[last]) / sma20[last] * 100

	checks := []bool{
		currentPrice > sma5[last],
		sma5[last] > sma20[last],
		sma20[last] > sma60[last],
		sma60[last] > sma120[last],
	}
	alignmentCount := 0
	for _, ok := range checks {
		if ok {
			alignmentCount++
		}
	}
	isPerfect := alignmentCount == 4
	isPartial := alignmentCount >= 3

	gc520 := crossedAbove(sma5, sma20, gcLookback)
	gc2060 := crossedAbove(sma20, sma60, gcLookback)
	gc60120 := crossedAbove(sma60, sma120, gcLookback)

	disparityOptimal := disparity >= disparityOptimalMin && disparity <= disparityOptimalMax
	overheated := disparity > disparityOverheated

	score := a.score(isPerfect, isPartial, gc520, gc2060, gc60120, disparityOptimal, overheated)

	return &contracts.MAAlignmentSignal{
		SMA5:                round2(sma5[last]),
		SMA20:               round2(sma20[last]),
		SMA60:               round2(sma60[last]),
		SMA120:              round2(sma120[last]),
		Disparity:           round2(disparity),
		IsPerfectAlignment:  isPerfect,
		IsPartialAlignment:  isPartial,
		AlignmentCount:      alignmentCount,
		GoldenCross520:      gc520,
		GoldenCross2060:     gc2060,
		GoldenCross60120:    gc60120,
		DisparityOptimal:    disparityOptimal,
		DisparityOverheated: overheated,
		Score:               score,
	}
}

// rollingSMASeries computes the full SMA column, NaN during warm-up.
func rollingSMASeries(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		out[i] = sma(values, i, window)
	}
	return out
}

func (a *MAAlignmentAnalyzer) score(
	isPerfect, isPartial bool,
	gc520, gc2060, gc60120 bool,
	disparityOptimal, overheated bool,
) int {
	score := 0

	if isPerfect {
		score += 40
	} else if isPartial {
		score += 25
	}

	if gc520 {
		score += 10
	}
	if gc2060 {
		score += 15
	}
	if gc60120 {
		score += 20
	}

	if overheated {
		score -= 20
	} else if disparityOptimal {
		score += 10
	}

	return clampInt(score, -100, 95)
}
