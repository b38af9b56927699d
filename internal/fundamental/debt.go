package fundamental

import (
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// Debt-to-equity tiers and repayment thresholds, in percent.
const (
	debtExcellent = 50.0
	debtGood      = 100.0
	debtFair      = 150.0
	debtPoor      = 200.0

	repay5Years  = 20.0
	repay10Years = 10.0

	// Sentinel for negative-equity balance sheets.
	impairedEquityRatio = 999.9
)

// DebtAnalyzer scores leverage: the debt-to-equity ratio level and how
// many years of current net income it would take to pay the debt off.
type DebtAnalyzer struct {
	log *logger.Logger
}

// NewDebtAnalyzer creates a DebtAnalyzer
func NewDebtAnalyzer(log *logger.Logger) *DebtAnalyzer {
	return &DebtAnalyzer{log: log}
}

func (a *DebtAnalyzer) Name() string { return contracts.FilterDebt }

func (a *DebtAnalyzer) MaxScore() int { return 25 }

func (a *DebtAnalyzer) MinYears() int { return 1 }

// Analyze scores the record's leverage. Returns nil for invalid records.
func (a *DebtAnalyzer) Analyze(record *contracts.FundamentalRecord) *contracts.DebtSignal {
	if record == nil || !record.IsValid {
		return nil
	}

	totalDebt := record.TotalDebt
	totalEquity := record.TotalEquity
	netIncome := record.NetIncome

	debtRatio := impairedEquityRatio
	if totalEquity > 0 {
		debtRatio = totalDebt / totalEquity * 100
	}

	repaymentRatio := 0.0
	yearsToRepay := impairedEquityRatio
	if totalDebt > 0 && netIncome > 0 {
		repaymentRatio = netIncome / totalDebt * 100
		yearsToRepay = totalDebt / netIncome
	}

	below50 := debtRatio <= debtExcellent
	below100 := debtRatio <= debtGood
	below150 := debtRatio <= debtFair
	above200 := debtRatio > debtPoor

	repay5 := repaymentRatio >= repay5Years
	repay10 := repaymentRatio >= repay10Years

	score := 0
	if above200 {
		score -= 10
	} else if below50 {
		score += 15
	} else if below100 {
		score += 10
	} else if below150 {
		score += 5
	}
	if repay5 {
		score += 10
	} else if repay10 {
		score += 5
	}
	score = clampScore(score, a.MaxScore())

	return &contracts.DebtSignal{
		CurrentDebtRatio:  round2(debtRatio),
		TotalDebt:         totalDebt,
		NetIncome:         netIncome,
		RepaymentRatio:    round2(repaymentRatio),
		YearsToRepay:      round1(yearsToRepay),
		DebtBelow50:       below50,
		DebtBelow100:      below100,
		DebtBelow150:      below150,
		DebtAbove200:      above200,
		CanRepayIn5Years:  repay5,
		CanRepayIn10Years: repay10,
		Score:             score,
	}
}
