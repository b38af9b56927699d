package screening

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
	"github.com/wonny/screener/pkg/redis"
)

// seriesBars is how much daily history the scanner requests per
// ticker, enough for the 150-bar pattern analyzer plus warm-up.
const seriesBars = 260

// Ticker identifies one asset in the scan universe.
type Ticker struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Market string `json:"market"`
}

// ScanOptions controls one batch scan.
type ScanOptions struct {
	Options

	Limit   int // per-tier result cap
	Workers int // worker-pool size
}

// ScanResult is the ranked outcome of one batch scan.
type ScanResult struct {
	ScanDate time.Time `json:"scan_date"`

	Signals []*contracts.AssetSignal `json:"signals"` // score descending

	StrongBuy []*contracts.AssetSignal `json:"strong_buy"` // score >= 80
	Buy       []*contracts.AssetSignal `json:"buy"`        // 50 <= score < 80
	WeakBuy   []*contracts.AssetSignal `json:"weak_buy"`   // 20 <= score < 50

	TotalScanned int `json:"total_scanned"`
	TotalPassed  int `json:"total_passed"`
	TotalSkipped int `json:"total_skipped"`
}

// cachedOutcome wraps one ticker's verdict so that "analyzed, filtered
// out" is cacheable alongside a passing signal.
type cachedOutcome struct {
	Signal *contracts.AssetSignal `json:"signal"`
	Passed bool                   `json:"passed"`
}

// Scanner runs the aggregator over a universe of tickers with a
// bounded worker pool. A failure on one ticker never aborts the batch.
type Scanner struct {
	aggregator   *Aggregator
	prices       contracts.PriceProvider
	fundamentals contracts.FundamentalProvider
	cache        *redis.Cache // optional
	log          *logger.Logger
}

// NewScanner creates a Scanner. cache may be nil to disable result caching.
func NewScanner(
	aggregator *Aggregator,
	prices contracts.PriceProvider,
	fundamentals contracts.FundamentalProvider,
	cache *redis.Cache,
	log *logger.Logger,
) *Scanner {
	return &Scanner{
		aggregator:   aggregator,
		prices:       prices,
		fundamentals: fundamentals,
		cache:        cache,
		log:          log,
	}
}

type tickerOutcome struct {
	signal  *contracts.AssetSignal
	skipped bool
}

// Scan evaluates every ticker concurrently, ranks the passing signals
// by score descending, and buckets them into tiers. Tickers that fail
// (fetch error, panic, malformed data) are logged and omitted.
func (s *Scanner) Scan(ctx context.Context, tickers []Ticker, opts ScanOptions) *ScanResult {
	workers := opts.Workers
	if workers <= 0 {
		workers = 10
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	scanDate := time.Now().Truncate(24 * time.Hour)

	jobs := make(chan Ticker)
	outcomes := make(chan tickerOutcome, len(tickers))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				outcomes <- s.scanOne(ctx, t, scanDate, opts)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, t := range tickers {
			select {
			case jobs <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	result := &ScanResult{ScanDate: scanDate}
	for out := range outcomes {
		result.TotalScanned++
		if out.skipped {
			result.TotalSkipped++
			continue
		}
		if out.signal != nil {
			result.Signals = append(result.Signals, out.signal)
		}
	}
	result.TotalPassed = len(result.Signals)

	// Deterministic order: score descending, ticker as tiebreak.
	sort.Slice(result.Signals, func(i, j int) bool {
		if result.Signals[i].TotalScore != result.Signals[j].TotalScore {
			return result.Signals[i].TotalScore > result.Signals[j].TotalScore
		}
		return result.Signals[i].Ticker < result.Signals[j].Ticker
	})

	for _, sig := range result.Signals {
		switch {
		case sig.TotalScore >= 80:
			if len(result.StrongBuy) < opts.Limit {
				result.StrongBuy = append(result.StrongBuy, sig)
			}
		case sig.TotalScore >= 50:
			if len(result.Buy) < opts.Limit {
				result.Buy = append(result.Buy, sig)
			}
		case sig.TotalScore >= 20:
			if len(result.WeakBuy) < opts.Limit {
				result.WeakBuy = append(result.WeakBuy, sig)
			}
		}
	}

	s.log.WithFields(map[string]interface{}{
		"scanned": result.TotalScanned,
		"passed":  result.TotalPassed,
		"skipped": result.TotalSkipped,
	}).Info("scan complete")

	return result
}

// scanOne fetches one ticker's inputs and runs the aggregator,
// recovering from panics so a bad ticker cannot take the batch down.
func (s *Scanner) scanOne(ctx context.Context, t Ticker, scanDate time.Time, opts ScanOptions) (out tickerOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(map[string]interface{}{
				"ticker": t.Code,
				"panic":  fmt.Sprintf("%v", r),
			}).Error("ticker analysis panicked")
			out = tickerOutcome{skipped: true}
		}
	}()

	dateKey := scanDate.Format("2006-01-02")
	if s.cache != nil {
		var cached cachedOutcome
		hit, err := s.cache.Get(ctx, &cached, redis.ScanKey(t.Market, t.Code, dateKey)...)
		if err != nil {
			s.log.WithError(err).WithField("ticker", t.Code).Debug("scan cache read failed")
		} else if hit {
			if !cached.Passed {
				return tickerOutcome{}
			}
			return tickerOutcome{signal: cached.Signal}
		}
	}

	var series contracts.PriceSeries
	if s.needsPrices(opts) {
		var err error
		series, err = s.prices.GetSeries(ctx, t.Code, seriesBars)
		if err != nil {
			s.log.WithError(err).WithField("ticker", t.Code).Warn("price fetch failed")
			return tickerOutcome{skipped: true}
		}
	}

	var record *contracts.FundamentalRecord
	if s.needsFundamentals(opts) {
		var err error
		record, err = s.fundamentals.GetFundamentals(ctx, t.Code, t.Market)
		if err != nil {
			s.log.WithError(err).WithField("ticker", t.Code).Debug("fundamental fetch failed")
			// Price-based filters can still run.
		}
	}

	sig := s.aggregator.AnalyzeOne(series, record, t.Code, t.Name, t.Market, opts.Options)

	if s.cache != nil {
		outcome := cachedOutcome{Signal: sig, Passed: sig != nil}
		if err := s.cache.Set(ctx, outcome, redis.TTLScanResult, redis.ScanKey(t.Market, t.Code, dateKey)...); err != nil {
			s.log.WithError(err).WithField("ticker", t.Code).Debug("scan cache write failed")
		}
	}

	return tickerOutcome{signal: sig}
}

func (s *Scanner) needsPrices(opts ScanOptions) bool {
	for _, f := range opts.Filters {
		switch f {
		case contracts.FilterIchimoku, contracts.FilterBollinger,
			contracts.FilterMAAlignment, contracts.FilterCupHandle:
			return true
		}
	}
	return false
}

func (s *Scanner) needsFundamentals(opts ScanOptions) bool {
	for _, f := range opts.Filters {
		switch f {
		case contracts.FilterROE, contracts.FilterGPM,
			contracts.FilterDebt, contracts.FilterCapEx:
			return true
		}
	}
	return false
}
