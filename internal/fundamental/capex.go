package fundamental

import (
	"math"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// CapEx-to-net-income tiers and the stability band, in percent.
const (
	capexExcellent = 15.0
	capexGood      = 25.0
	capexFair      = 35.0
	capexPoor      = 50.0

	capexStabilityThreshold = 0.20
)

// CapExAnalyzer scores capital intensity: how much of net income goes
// to capital expenditure, and how stable that ratio has been against
// its trailing 3-year average.
type CapExAnalyzer struct {
	log *logger.Logger
}

// NewCapExAnalyzer creates a CapExAnalyzer
func NewCapExAnalyzer(log *logger.Logger) *CapExAnalyzer {
	return &CapExAnalyzer{log: log}
}

func (a *CapExAnalyzer) Name() string { return contracts.FilterCapEx }

func (a *CapExAnalyzer) MaxScore() int { return 20 }

func (a *CapExAnalyzer) MinYears() int { return 1 }

// Analyze scores the record's capex ratio. Returns nil for invalid
// records or when no year has both capex and a positive net income.
func (a *CapExAnalyzer) Analyze(record *contracts.FundamentalRecord) *contracts.CapExSignal {
	if record == nil || !record.IsValid {
		return nil
	}
	if len(record.CapExByYear) == 0 || len(record.NetIncomeByYear) == 0 {
		return nil
	}

	// Ratio per year where both figures exist and income is positive.
	var years []int
	for _, y := range contracts.Years(record.CapExByYear) {
		if _, ok := record.NetIncomeByYear[y]; ok {
			years = append(years, y)
		}
	}

	var ratioYears []int
	var ratios []float64
	for _, y := range years {
		income := record.NetIncomeByYear[y]
		if income > 0 {
			ratioYears = append(ratioYears, y)
			ratios = append(ratios, record.CapExByYear[y]/income*100)
		}
	}
	if len(ratios) == 0 {
		return nil
	}

	latestYear := ratioYears[len(ratioYears)-1]
	currentRatio := ratios[len(ratios)-1]
	currentCapEx := record.CapExByYear[latestYear]
	currentNetIncome := record.NetIncomeByYear[latestYear]

	recent := ratios
	if len(ratios) >= 3 {
		recent = ratios[len(ratios)-3:]
	}
	avg3y := mean(recent)

	below15 := currentRatio < capexExcellent
	below25 := currentRatio < capexGood
	below35 := currentRatio < capexFair
	above50 := currentRatio >= capexPoor

	isStable := false
	if avg3y > 0 {
		isStable = math.Abs(currentRatio-avg3y)/avg3y <= capexStabilityThreshold
	}

	score := 0
	if above50 {
		score -= 10
	} else if below15 {
		score += 15
	} else if below25 {
		score += 10
	} else if below35 {
		score += 5
	}
	if isStable {
		score += 5
	}
	score = clampScore(score, a.MaxScore())

	return &contracts.CapExSignal{
		CurrentCapEx:       currentCapEx,
		CurrentNetIncome:   currentNetIncome,
		CapExToIncomeRatio: round2(currentRatio),
		CapExRatioHistory:  round2Slice(ratios),
		CapExRatio3YAvg:    round2(avg3y),
		YearsAvailable:     len(ratios),
		CapExBelow15:       below15,
		CapExBelow25:       below25,
		CapExBelow35:       below35,
		CapExAbove50:       above50,
		IsStable:           isStable,
		Score:              score,
	}
}
