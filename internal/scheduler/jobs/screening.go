// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/external/naver"
	"github.com/wonny/screener/internal/screening"
	"github.com/wonny/screener/pkg/config"
	"github.com/wonny/screener/pkg/logger"
)

// ScreeningJob runs the daily post-close scan over the KOSPI and
// KOSDAQ universes and persists the ranked results.
type ScreeningJob struct {
	scanner  *screening.Scanner
	repo     contracts.ScreeningRepository
	universe *naver.Client
	cfg      *config.Config
	log      *logger.Logger
}

// NewScreeningJob creates a ScreeningJob
func NewScreeningJob(
	scanner *screening.Scanner,
	repo contracts.ScreeningRepository,
	universe *naver.Client,
	cfg *config.Config,
	log *logger.Logger,
) *ScreeningJob {
	return &ScreeningJob{
		scanner:  scanner,
		repo:     repo,
		universe: universe,
		cfg:      cfg,
		log:      log,
	}
}

func (j *ScreeningJob) Name() string { return "daily_screening" }

func (j *ScreeningJob) Schedule() string { return j.cfg.Screening.Schedule }

// Run scans both domestic markets with the configured filters and
// upserts the passing signals.
func (j *ScreeningJob) Run(ctx context.Context) error {
	var tickers []screening.Ticker
	for _, market := range []string{"KOSPI", "KOSDAQ"} {
		stocks, err := j.universe.FetchUniverse(ctx, market, 0)
		if err != nil {
			return fmt.Errorf("fetch %s universe: %w", market, err)
		}
		for _, s := range stocks {
			tickers = append(tickers, screening.Ticker{
				Code:   s.Ticker,
				Name:   s.Name,
				Market: s.Market,
			})
		}
	}

	opts := screening.ScanOptions{
		Options: screening.Options{
			Filters:     j.cfg.Screening.Filters,
			CombineMode: screening.CombineMode(j.cfg.Screening.CombineMode),
			MinScore:    j.cfg.Screening.MinScore,
		},
		Limit:   j.cfg.Screening.Limit,
		Workers: j.cfg.Screening.Workers,
	}

	result := j.scanner.Scan(ctx, tickers, opts)

	if err := j.repo.SaveResults(ctx, result.ScanDate, result.Signals); err != nil {
		return fmt.Errorf("save screening results: %w", err)
	}

	j.log.WithFields(map[string]interface{}{
		"scanned":    result.TotalScanned,
		"passed":     result.TotalPassed,
		"strong_buy": len(result.StrongBuy),
		"buy":        len(result.Buy),
		"weak_buy":   len(result.WeakBuy),
	}).Info("daily screening finished")

	return nil
}
