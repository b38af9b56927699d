package fundamental

import (
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// ROE tier and consistency thresholds, in percent.
const (
	roeExcellent = 20.0
	roeGood      = 15.0
	roeFair      = 10.0

	stdHighlyConsistent = 3.0
	stdConsistent       = 5.0
)

// ROEAnalyzer scores return on equity: the current level, multi-year
// consistency measured by standard deviation, and the 3-year trend.
type ROEAnalyzer struct {
	log *logger.Logger
}

// NewROEAnalyzer creates an ROEAnalyzer
func NewROEAnalyzer(log *logger.Logger) *ROEAnalyzer {
	return &ROEAnalyzer{log: log}
}

func (a *ROEAnalyzer) Name() string { return contracts.FilterROE }

func (a *ROEAnalyzer) MaxScore() int { return 30 }

func (a *ROEAnalyzer) MinYears() int { return 3 }

// Analyze scores the record's ROE history. Returns nil for invalid
// records or fewer than three years of data.
func (a *ROEAnalyzer) Analyze(record *contracts.FundamentalRecord) *contracts.ROESignal {
	if record == nil || !record.IsValid {
		return nil
	}

	history := contracts.SeriesByYear(record.ROEByYear)
	if len(history) < a.MinYears() {
		return nil
	}

	currentROE := history[len(history)-1]
	roeMean := mean(history)
	roeStd := stddevPop(history)

	above20 := currentROE >= roeExcellent
	above15 := currentROE >= roeGood
	above10 := currentROE >= roeFair

	highlyConsistent := roeStd <= stdHighlyConsistent
	consistent := roeStd <= stdConsistent

	trendDirection, trendScore := roeTrend(history)

	score := 0
	if above20 {
		score += 15
	} else if above15 {
		score += 10
	} else if above10 {
		score += 5
	}

	// The consistency bonus needs a meaningful sample.
	if len(history) >= 5 {
		if highlyConsistent {
			score += 10
		} else if consistent {
			score += 5
		}
	}

	score += trendScore
	score = clampScore(score, a.MaxScore())

	return &contracts.ROESignal{
		CurrentROE:         round2(currentROE),
		ROEHistory:         round2Slice(history),
		ROEMean:            round2(roeMean),
		ROEStd:             round2(roeStd),
		YearsAvailable:     len(history),
		ROEAbove20:         above20,
		ROEAbove15:         above15,
		ROEAbove10:         above10,
		IsHighlyConsistent: highlyConsistent,
		IsConsistent:       consistent,
		TrendDirection:     trendDirection,
		TrendScore:         trendScore,
		Score:              score,
	}
}

// roeTrend compares the first and last of the most recent three years:
// a move of more than 2 percentage points decides the direction.
func roeTrend(history []float64) (string, int) {
	if len(history) < 2 {
		return "neutral", 0
	}
	recent := history
	if len(history) >= 3 {
		recent = history[len(history)-3:]
	}
	first, last := recent[0], recent[len(recent)-1]
	switch {
	case last > first+2:
		return "up", 5
	case last < first-2:
		return "down", -5
	default:
		return "neutral", 0
	}
}
