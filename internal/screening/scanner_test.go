package screening

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// stubPrices serves canned series per ticker, errors for unknown ones,
// and panics for the designated ticker to exercise worker recovery.
type stubPrices struct {
	series      map[string]contracts.PriceSeries
	panicTicker string
}

func (s *stubPrices) GetSeries(_ context.Context, ticker string, _ int) (contracts.PriceSeries, error) {
	if ticker == s.panicTicker {
		panic("malformed upstream payload")
	}
	series, ok := s.series[ticker]
	if !ok {
		return nil, fmt.Errorf("no data for %s", ticker)
	}
	return series, nil
}

type stubFundamentals struct {
	records map[string]*contracts.FundamentalRecord
}

func (s *stubFundamentals) GetFundamentals(_ context.Context, ticker, _ string) (*contracts.FundamentalRecord, error) {
	record, ok := s.records[ticker]
	if !ok {
		return nil, fmt.Errorf("no fundamentals for %s", ticker)
	}
	return record, nil
}

func newTestScanner(prices *stubPrices) *Scanner {
	log := logger.NewNop()
	return NewScanner(NewAggregator(log), prices, &stubFundamentals{}, nil, log)
}

func TestScanner_Scan(t *testing.T) {
	prices := &stubPrices{
		series: map[string]contracts.PriceSeries{
			"GOOD": risingSeries(),    // passes at 80
			"WEAK": decliningSeries(), // analyzed, filtered out
		},
		panicTicker: "BOOM",
	}
	scanner := newTestScanner(prices)

	tickers := []Ticker{
		{Code: "GOOD", Name: "Good Co", Market: "KOSPI"},
		{Code: "WEAK", Name: "Weak Co", Market: "KOSPI"},
		{Code: "GONE", Name: "Gone Co", Market: "KOSDAQ"}, // fetch error
		{Code: "BOOM", Name: "Boom Co", Market: "KOSDAQ"}, // provider panic
	}
	opts := ScanOptions{
		Options: Options{
			Filters:     []string{contracts.FilterIchimoku},
			CombineMode: CombineAny,
			MinScore:    50,
		},
		Limit:   20,
		Workers: 3,
	}

	result := scanner.Scan(context.Background(), tickers, opts)

	assert.Equal(t, 4, result.TotalScanned)
	assert.Equal(t, 1, result.TotalPassed)
	assert.Equal(t, 2, result.TotalSkipped)

	require.Len(t, result.Signals, 1)
	assert.Equal(t, "GOOD", result.Signals[0].Ticker)
	assert.Equal(t, 80, result.Signals[0].TotalScore)

	// Score 80 lands in the top tier.
	require.Len(t, result.StrongBuy, 1)
	assert.Empty(t, result.Buy)
	assert.Empty(t, result.WeakBuy)
}

func TestScanner_DeterministicOrder(t *testing.T) {
	// Equal scores fall back to ticker order.
	prices := &stubPrices{
		series: map[string]contracts.PriceSeries{
			"CCC": risingSeries(),
			"AAA": risingSeries(),
			"BBB": risingSeries(),
		},
	}
	scanner := newTestScanner(prices)

	tickers := []Ticker{
		{Code: "CCC", Market: "KOSPI"},
		{Code: "AAA", Market: "KOSPI"},
		{Code: "BBB", Market: "KOSPI"},
	}
	opts := ScanOptions{
		Options: Options{
			Filters:     []string{contracts.FilterIchimoku},
			CombineMode: CombineAny,
			MinScore:    50,
		},
		Workers: 2,
	}

	for run := 0; run < 3; run++ {
		result := scanner.Scan(context.Background(), tickers, opts)
		require.Len(t, result.Signals, 3)
		assert.Equal(t, "AAA", result.Signals[0].Ticker)
		assert.Equal(t, "BBB", result.Signals[1].Ticker)
		assert.Equal(t, "CCC", result.Signals[2].Ticker)
	}
}

func TestScanner_TierLimit(t *testing.T) {
	prices := &stubPrices{
		series: map[string]contracts.PriceSeries{
			"AAA": risingSeries(),
			"BBB": risingSeries(),
			"CCC": risingSeries(),
		},
	}
	scanner := newTestScanner(prices)

	tickers := []Ticker{
		{Code: "AAA", Market: "KOSPI"},
		{Code: "BBB", Market: "KOSPI"},
		{Code: "CCC", Market: "KOSPI"},
	}
	opts := ScanOptions{
		Options: Options{
			Filters:     []string{contracts.FilterIchimoku},
			CombineMode: CombineAny,
			MinScore:    50,
		},
		Limit:   2,
		Workers: 2,
	}

	result := scanner.Scan(context.Background(), tickers, opts)

	// All three pass; the tier is capped but Signals is not.
	assert.Len(t, result.Signals, 3)
	assert.Len(t, result.StrongBuy, 2)
}

func TestScanner_EmptyUniverse(t *testing.T) {
	scanner := newTestScanner(&stubPrices{})

	opts := ScanOptions{
		Options: Options{
			Filters:     []string{contracts.FilterIchimoku},
			CombineMode: CombineAny,
		},
	}
	result := scanner.Scan(context.Background(), nil, opts)

	assert.Equal(t, 0, result.TotalScanned)
	assert.Empty(t, result.Signals)
}

func TestScanner_FilterRouting(t *testing.T) {
	scanner := newTestScanner(&stubPrices{})

	priceOpts := ScanOptions{Options: Options{Filters: []string{contracts.FilterBollinger}}}
	fundOpts := ScanOptions{Options: Options{Filters: []string{contracts.FilterROE}}}

	assert.True(t, scanner.needsPrices(priceOpts))
	assert.False(t, scanner.needsFundamentals(priceOpts))

	assert.False(t, scanner.needsPrices(fundOpts))
	assert.True(t, scanner.needsFundamentals(fundOpts))
}
