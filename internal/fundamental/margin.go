package fundamental

import (
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// Gross margin tiers, in percent.
const (
	gpmExcellent = 50.0
	gpmGood      = 40.0
	gpmFair      = 30.0
)

// GPMAnalyzer scores the gross profit margin level plus a bonus for
// holding or growing the margin over the last three years.
type GPMAnalyzer struct {
	log *logger.Logger
}

// NewGPMAnalyzer creates a GPMAnalyzer
func NewGPMAnalyzer(log *logger.Logger) *GPMAnalyzer {
	return &GPMAnalyzer{log: log}
}

func (a *GPMAnalyzer) Name() string { return contracts.FilterGPM }

func (a *GPMAnalyzer) MaxScore() int { return 25 }

func (a *GPMAnalyzer) MinYears() int { return 1 }

// Analyze scores the record's gross margin history. Returns nil for
// invalid records or an empty margin history.
func (a *GPMAnalyzer) Analyze(record *contracts.FundamentalRecord) *contracts.GPMSignal {
	if record == nil || !record.IsValid {
		return nil
	}

	history := contracts.SeriesByYear(record.GrossMarginByYear)
	if len(history) < a.MinYears() {
		return nil
	}

	currentGPM := history[len(history)-1]

	above50 := currentGPM >= gpmExcellent
	above40 := currentGPM >= gpmGood
	above30 := currentGPM >= gpmFair

	stableOrRising := threeYearStableOrRising(history)

	score := 0
	if above50 {
		score += 15
	} else if above40 {
		score += 10
	} else if above30 {
		score += 5
	}
	if stableOrRising {
		score += 10
	}
	if score > a.MaxScore() {
		score = a.MaxScore()
	}

	return &contracts.GPMSignal{
		CurrentGPM:              round2(currentGPM),
		GPMHistory:              round2Slice(history),
		YearsAvailable:          len(history),
		GPMAbove50:              above50,
		GPMAbove40:              above40,
		GPMAbove30:              above30,
		ThreeYearStableOrRising: stableOrRising,
		Score:                   score,
	}
}

// threeYearStableOrRising reports whether none of the last three years
// dropped more than 2 percentage points against the prior year.
func threeYearStableOrRising(history []float64) bool {
	if len(history) < 3 {
		return false
	}
	recent := history[len(history)-3:]
	for i := 1; i < len(recent); i++ {
		if recent[i] < recent[i-1]-2 {
			return false
		}
	}
	return true
}
