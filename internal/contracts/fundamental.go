package contracts

import "sort"

// FundamentalRecord carries per-year financial ratios and the scalar
// balance-sheet figures the fundamental analyzers need. Year-keyed
// maps hold up to ten fiscal years; missing years are simply absent.
type FundamentalRecord struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Market string `json:"market"`

	// Per-year series, keyed by fiscal year.
	ROEByYear         map[int]float64 `json:"roe_by_year"`        // percent
	GrossMarginByYear map[int]float64 `json:"gpm_by_year"`        // percent
	CapExByYear       map[int]float64 `json:"capex_by_year"`      // absolute
	NetIncomeByYear   map[int]float64 `json:"net_income_by_year"` // absolute

	// Latest balance-sheet scalars.
	TotalDebt    float64 `json:"total_debt"`
	TotalEquity  float64 `json:"total_equity"`
	NetIncome    float64 `json:"net_income"`
	CurrentPrice float64 `json:"current_price"`

	// IsValid gates all fundamental analysis. A provider that could
	// not assemble a usable record sets it false and fills ErrMessage.
	IsValid    bool   `json:"is_valid"`
	ErrMessage string `json:"err_message,omitempty"`
}

// Years returns the sorted fiscal years present in the given map,
// oldest first.
func Years(byYear map[int]float64) []int {
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// SeriesByYear flattens a year-keyed map into a slice ordered oldest
// to newest.
func SeriesByYear(byYear map[int]float64) []float64 {
	years := Years(byYear)
	out := make([]float64, 0, len(years))
	for _, y := range years {
		out = append(out, byYear[y])
	}
	return out
}
