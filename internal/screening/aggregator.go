// Package screening composes the indicator analyzers into one ranked
// verdict per asset and runs them over a universe of tickers.
package screening

import (
	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/fundamental"
	"github.com/wonny/screener/internal/technical"
	"github.com/wonny/screener/pkg/logger"
)

// Pass thresholds per filter. The ichimoku filter uses the caller's
// MinScore (or PerfectOnly) instead of a fixed threshold.
const (
	technicalThreshold = 40

	roeThreshold   = 15
	gpmThreshold   = 15
	debtThreshold  = 15
	capexThreshold = 10
)

// CombineMode selects union or intersection semantics over the
// requested filters.
type CombineMode string

const (
	CombineAny CombineMode = "any"
	CombineAll CombineMode = "all"
)

// Options controls one aggregation pass.
type Options struct {
	Filters     []string
	CombineMode CombineMode
	MinScore    int
	PerfectOnly bool
}

func (o Options) has(filter string) bool {
	for _, f := range o.Filters {
		if f == filter {
			return true
		}
	}
	return false
}

// Aggregator invokes the requested analyzers for one asset, applies
// the combine-mode filter, and merges the verdicts into an AssetSignal.
type Aggregator struct {
	ichimoku    *technical.IchimokuAnalyzer
	bollinger   *technical.BollingerAnalyzer
	maAlignment *technical.MAAlignmentAnalyzer
	cupHandle   *technical.CupHandleAnalyzer

	roe   *fundamental.ROEAnalyzer
	gpm   *fundamental.GPMAnalyzer
	debt  *fundamental.DebtAnalyzer
	capex *fundamental.CapExAnalyzer

	log *logger.Logger
}

// NewAggregator creates an Aggregator with all eight analyzers
func NewAggregator(log *logger.Logger) *Aggregator {
	return &Aggregator{
		ichimoku:    technical.NewIchimokuAnalyzer(log),
		bollinger:   technical.NewBollingerAnalyzer(log),
		maAlignment: technical.NewMAAlignmentAnalyzer(log),
		cupHandle:   technical.NewCupHandleAnalyzer(log),
		roe:         fundamental.NewROEAnalyzer(log),
		gpm:         fundamental.NewGPMAnalyzer(log),
		debt:        fundamental.NewDebtAnalyzer(log),
		capex:       fundamental.NewCapExAnalyzer(log),
		log:         log,
	}
}

// AnalyzeOne runs the requested analyzers over one asset's series and
// fundamentals. Returns nil when the asset does not clear the
// combine-mode filter, or when nothing could be analyzed at all.
func (a *Aggregator) AnalyzeOne(
	series contracts.PriceSeries,
	record *contracts.FundamentalRecord,
	ticker, name, market string,
	opts Options,
) *contracts.AssetSignal {
	sig := &contracts.AssetSignal{
		Ticker:         ticker,
		Name:           name,
		Market:         market,
		ActivePatterns: []string{},
	}
	if len(series) > 0 {
		sig.CurrentPrice = series.Last().Close
	} else if record != nil {
		sig.CurrentPrice = record.CurrentPrice
	}

	if opts.has(contracts.FilterIchimoku) && len(series) > 0 {
		sig.Ichimoku = a.ichimoku.Analyze(series)
	}
	if opts.has(contracts.FilterBollinger) && len(series) > 0 {
		sig.Bollinger = a.bollinger.Analyze(series)
	}
	if opts.has(contracts.FilterMAAlignment) && len(series) > 0 {
		sig.MAAlignment = a.maAlignment.Analyze(series)
	}
	if opts.has(contracts.FilterCupHandle) && len(series) > 0 {
		sig.CupHandle = a.cupHandle.Analyze(series)
	}

	if opts.has(contracts.FilterROE) {
		sig.ROE = a.roe.Analyze(record)
	}
	if opts.has(contracts.FilterGPM) {
		sig.GPM = a.gpm.Analyze(record)
	}
	if opts.has(contracts.FilterDebt) {
		sig.Debt = a.debt.Analyze(record)
	}
	if opts.has(contracts.FilterCapEx) {
		sig.CapEx = a.capex.Analyze(record)
	}

	if sig.Ichimoku == nil && sig.Bollinger == nil && sig.MAAlignment == nil &&
		sig.CupHandle == nil && sig.ROE == nil && sig.GPM == nil &&
		sig.Debt == nil && sig.CapEx == nil {
		return nil
	}

	if !a.passes(sig, opts) {
		return nil
	}

	a.finalize(sig, opts)
	return sig
}

// filterPasses reports whether one requested filter clears its
// threshold on the computed signals.
func (a *Aggregator) filterPasses(sig *contracts.AssetSignal, filter string, opts Options) bool {
	switch filter {
	case contracts.FilterIchimoku:
		if sig.Ichimoku == nil {
			return false
		}
		if opts.PerfectOnly {
			return sig.Ichimoku.IsPerfect()
		}
		return sig.Ichimoku.Score >= opts.MinScore
	case contracts.FilterBollinger:
		return sig.Bollinger != nil && sig.Bollinger.Score >= technicalThreshold
	case contracts.FilterMAAlignment:
		return sig.MAAlignment != nil && sig.MAAlignment.Score >= technicalThreshold
	case contracts.FilterCupHandle:
		return sig.CupHandle != nil && sig.CupHandle.CupDetected &&
			sig.CupHandle.Score >= technicalThreshold
	case contracts.FilterROE:
		return sig.ROE != nil && sig.ROE.Score >= roeThreshold
	case contracts.FilterGPM:
		return sig.GPM != nil && sig.GPM.Score >= gpmThreshold
	case contracts.FilterDebt:
		return sig.Debt != nil && sig.Debt.Score >= debtThreshold
	case contracts.FilterCapEx:
		return sig.CapEx != nil && sig.CapEx.Score >= capexThreshold
	default:
		return false
	}
}

func (a *Aggregator) passes(sig *contracts.AssetSignal, opts Options) bool {
	if opts.CombineMode == CombineAll {
		for _, f := range opts.Filters {
			if !a.filterPasses(sig, f, opts) {
				return false
			}
		}
		return true
	}
	for _, f := range opts.Filters {
		if a.filterPasses(sig, f, opts) {
			return true
		}
	}
	return false
}

// finalize records active patterns, computes the split cross-filter
// bonuses, and sums the total score. Technical and fundamental bonuses
// use separate formulas and are never merged into one count.
func (a *Aggregator) finalize(sig *contracts.AssetSignal, opts Options) {
	technicalActive := 0
	fundamentalActive := 0

	if a.filterPasses(sig, contracts.FilterBollinger, opts) {
		sig.ActivePatterns = append(sig.ActivePatterns, contracts.PatternBollingerSqueeze)
		technicalActive++
	}
	if a.filterPasses(sig, contracts.FilterMAAlignment, opts) {
		sig.ActivePatterns = append(sig.ActivePatterns, contracts.PatternMAAlignment)
		technicalActive++
	}
	if a.filterPasses(sig, contracts.FilterCupHandle, opts) {
		sig.ActivePatterns = append(sig.ActivePatterns, contracts.PatternCupHandle)
		technicalActive++
	}
	if a.filterPasses(sig, contracts.FilterROE, opts) {
		sig.ActivePatterns = append(sig.ActivePatterns, contracts.PatternROEExcellence)
		fundamentalActive++
	}
	if a.filterPasses(sig, contracts.FilterGPM, opts) {
		sig.ActivePatterns = append(sig.ActivePatterns, contracts.PatternGPMExcellence)
		fundamentalActive++
	}
	if a.filterPasses(sig, contracts.FilterDebt, opts) {
		sig.ActivePatterns = append(sig.ActivePatterns, contracts.PatternLowDebt)
		fundamentalActive++
	}
	if a.filterPasses(sig, contracts.FilterCapEx, opts) {
		sig.ActivePatterns = append(sig.ActivePatterns, contracts.PatternCapitalEfficient)
		fundamentalActive++
	}

	bonus := 0
	if technicalActive >= 2 {
		bonus += 10 * (technicalActive - 1)
	}
	if fundamentalActive >= 2 {
		bonus += 5 * (fundamentalActive - 1)
	}
	sig.BonusScore = bonus

	total := bonus
	if sig.Ichimoku != nil {
		total += sig.Ichimoku.Score
	}
	if sig.Bollinger != nil {
		total += sig.Bollinger.Score
	}
	if sig.MAAlignment != nil {
		total += sig.MAAlignment.Score
	}
	if sig.CupHandle != nil {
		total += sig.CupHandle.Score
	}
	if sig.ROE != nil {
		total += sig.ROE.Score
	}
	if sig.GPM != nil {
		total += sig.GPM.Score
	}
	if sig.Debt != nil {
		total += sig.Debt.Score
	}
	if sig.CapEx != nil {
		total += sig.CapEx.Score
	}
	sig.TotalScore = total
	sig.Strength = contracts.StrengthForScore(total)
}
