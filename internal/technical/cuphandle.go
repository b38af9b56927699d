package technical

import (
	"math"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// Cup-and-handle geometry constraints.
const (
	cupMinDuration = 60
	cupMaxDuration = 130
	cupMinDepth    = 15.0
	cupMaxDepth    = 40.0

	rightPeakMinRatio = 0.90
	rightPeakMaxRatio = 1.10

	handleMinDepth = 5.0
	handleMaxDepth = 15.0

	breakoutImminentThreshold  = 0.97
	breakoutConfirmedThreshold = 1.00

	cupVolumeSurgeRatio = 2.0
)

// CupHandleAnalyzer runs a bounded search over candidate cup
// geometries, keeping the single best-formed U shape, then looks for a
// handle pullback and a resistance breakout after it.
type CupHandleAnalyzer struct {
	log *logger.Logger
}

// NewCupHandleAnalyzer creates a CupHandleAnalyzer
func NewCupHandleAnalyzer(log *logger.Logger) *CupHandleAnalyzer {
	return &CupHandleAnalyzer{log: log}
}

func (a *CupHandleAnalyzer) Name() string { return contracts.FilterCupHandle }

// MinBars is the maximum cup duration plus margin
func (a *CupHandleAnalyzer) MinBars() int { return 150 }

func (a *CupHandleAnalyzer) MaxScore() int { return 100 }

// cup is one surviving candidate from the geometry search.
type cup struct {
	leftPeakIdx  int
	bottomIdx    int
	rightPeakIdx int
	leftPeak     float64
	bottom       float64
	rightPeak    float64
	depth        float64
	duration     int
}

// Analyze searches the series for a cup-and-handle formation. A series
// long enough to analyze but without a qualifying cup yields a non-nil
// signal with CupDetected=false and score 0; too few bars yields nil.
func (a *CupHandleAnalyzer) Analyze(series contracts.PriceSeries) *contracts.CupHandleSignal {
	n := len(series)
	if n < a.MinBars() {
		return nil
	}

	currentPrice := series[n-1].Close

	best := a.findCup(series)
	if best == nil {
		return &contracts.CupHandleSignal{
			CupDetected:  false,
			CurrentPrice: round2(currentPrice),
			Score:        0,
		}
	}

	handleDepth, handleDetected := a.findHandle(series, best.rightPeakIdx, best.rightPeak)

	resistance := best.leftPeak
	if best.rightPeak > resistance {
		resistance = best.rightPeak
	}
	breakoutImminent := currentPrice >= resistance*breakoutImminentThreshold
	breakoutConfirmed := currentPrice >= resistance*breakoutConfirmedThreshold

	volumes := series.Volumes()
	volumeMA := sma(volumes, n-1, 20)
	volumeRatio := 0.0
	if volumeMA > 0 {
		volumeRatio = volumes[n-1] / volumeMA
	}
	volumeSurge := volumeRatio >= cupVolumeSurgeRatio

	score := a.score(handleDetected, breakoutImminent, breakoutConfirmed, volumeSurge)

	return &contracts.CupHandleSignal{
		CupDetected:        true,
		CupStartDate:       series[best.leftPeakIdx].Date.Format("2006-01-02"),
		CupBottomDate:      series[best.bottomIdx].Date.Format("2006-01-02"),
		CupEndDate:         series[best.rightPeakIdx].Date.Format("2006-01-02"),
		CupDepthPercent:    round2(best.depth),
		CupDurationDays:    best.duration,
		HandleDetected:     handleDetected,
		HandleDepthPercent: round2(handleDepth),
		LeftPeakPrice:      round2(best.leftPeak),
		CupBottomPrice:     round2(best.bottom),
		RightPeakPrice:     round2(best.rightPeak),
		CurrentPrice:       round2(currentPrice),
		BreakoutImminent:   breakoutImminent,
		BreakoutConfirmed:  breakoutConfirmed,
		VolumeRatio:        round2(volumeRatio),
		VolumeSurge:        volumeSurge,
		Score:              score,
	}
}

// findCup scans candidate cup start offsets and durations, scoring
// each surviving geometry by symmetry times depth fit (a 25% deep,
// perfectly symmetric cup scores highest) and keeping the best.
func (a *CupHandleAnalyzer) findCup(series contracts.PriceSeries) *cup {
	n := len(series)
	if n < cupMinDuration {
		return nil
	}

	closes := series.Closes()
	highs := make([]float64, n)
	for i, b := range series {
		highs[i] = b.High
	}

	searchRange := cupMaxDuration + 20
	if n < searchRange {
		searchRange = n
	}

	var best *cup
	bestScore := 0.0

	for startOffset := cupMinDuration; startOffset < searchRange; startOffset++ {
		startIdx := n - startOffset - 1
		if startIdx < 0 {
			break
		}

		// Left peak: highest high in a small window around the start.
		leftLo := startIdx - 5
		if leftLo < 0 {
			leftLo = 0
		}
		leftHi := startIdx + 10
		if leftHi > n {
			leftHi = n
		}
		leftPeakIdx := argMax(highs, leftLo, leftHi)
		leftPeak := highs[leftPeakIdx]

		maxDuration := cupMaxDuration
		if startOffset < maxDuration {
			maxDuration = startOffset
		}
		for duration := cupMinDuration; duration <= maxDuration; duration++ {
			endIdx := startIdx + duration
			if endIdx >= n {
				continue
			}

			// Bottom: lowest close strictly inside the cup.
			botLo := leftPeakIdx + 5
			botHi := endIdx - 5
			if botHi <= botLo {
				continue
			}
			bottomIdx := argMin(closes, botLo, botHi)
			bottom := closes[bottomIdx]

			depth := (leftPeak - bottom) / leftPeak * 100
			if depth < cupMinDepth || depth > cupMaxDepth {
				continue
			}

			// Right peak: highest high between the bottom and just past
			// the cup end.
			rightLo := bottomIdx + 5
			rightHi := endIdx + 5
			if rightHi > n {
				rightHi = n
			}
			if rightHi <= rightLo {
				continue
			}
			rightPeakIdx := argMax(highs, rightLo, rightHi)
			rightPeak := highs[rightPeakIdx]

			rightRatio := rightPeak / leftPeak
			if rightRatio < rightPeakMinRatio || rightRatio > rightPeakMaxRatio {
				continue
			}

			// U shape, not a V or a plateau: the bottom must sit well
			// below both rims.
			if bottom >= leftPeak*0.9 || bottom >= rightPeak*0.9 {
				continue
			}

			symmetry := 1 - math.Abs(rightRatio-1.0)
			depthFit := 1 - math.Abs(depth-25)/25
			patternScore := symmetry * depthFit

			if patternScore > bestScore {
				bestScore = patternScore
				best = &cup{
					leftPeakIdx:  leftPeakIdx,
					bottomIdx:    bottomIdx,
					rightPeakIdx: rightPeakIdx,
					leftPeak:     leftPeak,
					bottom:       bottom,
					rightPeak:    rightPeak,
					depth:        depth,
					duration:     duration,
				}
			}
		}
	}

	return best
}

// findHandle looks for a shallow pullback after the cup's right rim:
// the lowest low in the trailing region, 5 to 15 percent below the
// right peak.
func (a *CupHandleAnalyzer) findHandle(series contracts.PriceSeries, rightPeakIdx int, rightPeak float64) (float64, bool) {
	n := len(series)
	if rightPeakIdx >= n-5 {
		return 0, false
	}

	handleLow := series[rightPeakIdx].Low
	for i := rightPeakIdx + 1; i < n; i++ {
		if series[i].Low < handleLow {
			handleLow = series[i].Low
		}
	}

	depth := (rightPeak - handleLow) / rightPeak * 100
	if depth >= handleMinDepth && depth <= handleMaxDepth {
		return depth, true
	}
	return 0, false
}

func (a *CupHandleAnalyzer) score(handleDetected, breakoutImminent, breakoutConfirmed, volumeSurge bool) int {
	score := 25 // cup detected

	if handleDetected {
		score += 15
	}

	if breakoutConfirmed {
		score += 25
	} else if breakoutImminent {
		score += 15
	}

	if volumeSurge {
		score += 20
	}

	if score > 100 {
		score = 100
	}
	return score
}
