package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/internal/screening"
)

var (
	screenMarket      string
	screenFilters     []string
	screenCombineMode string
	screenMinScore    int
	screenPerfectOnly bool
	screenLimit       int
	screenTickers     []string
	screenSave        bool
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Run a one-shot screening scan",
	Long: `Scans the selected universe with the chosen filters and prints
the ranked signals. Use --save to also persist the results.`,
	RunE: runScreen,
}

func runScreen(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(screenSave)
	if err != nil {
		return err
	}
	defer d.close()

	ctx := context.Background()

	if screenCombineMode != string(screening.CombineAny) && screenCombineMode != string(screening.CombineAll) {
		return fmt.Errorf("--combine-mode must be \"any\" or \"all\"")
	}

	filters := screenFilters
	if len(filters) == 0 {
		filters = d.cfg.Screening.Filters
	}

	tickers, err := resolveScreenUniverse(ctx, d)
	if err != nil {
		return err
	}

	opts := screening.ScanOptions{
		Options: screening.Options{
			Filters:     filters,
			CombineMode: screening.CombineMode(screenCombineMode),
			MinScore:    screenMinScore,
			PerfectOnly: screenPerfectOnly,
		},
		Limit:   screenLimit,
		Workers: d.cfg.Screening.Workers,
	}

	d.log.WithFields(map[string]interface{}{
		"tickers":      len(tickers),
		"filters":      strings.Join(filters, ","),
		"combine_mode": screenCombineMode,
	}).Info("scan starting")

	result := d.scan.Scan(ctx, tickers, opts)

	fmt.Printf("Scanned %d, passed %d, skipped %d\n\n",
		result.TotalScanned, result.TotalPassed, result.TotalSkipped)

	printTier("STRONG BUY", result.StrongBuy)
	printTier("BUY", result.Buy)
	printTier("WEAK BUY", result.WeakBuy)

	if screenSave {
		if err := d.repo.SaveResults(ctx, result.ScanDate, result.Signals); err != nil {
			return fmt.Errorf("save results: %w", err)
		}
		fmt.Printf("Saved %d signals\n", len(result.Signals))
	}

	return nil
}

func resolveScreenUniverse(ctx context.Context, d *deps) ([]screening.Ticker, error) {
	if len(screenTickers) > 0 {
		tickers := make([]screening.Ticker, 0, len(screenTickers))
		for _, code := range screenTickers {
			tickers = append(tickers, screening.Ticker{Code: code, Name: code, Market: screenMarket})
		}
		return tickers, nil
	}

	markets := []string{"KOSPI", "KOSDAQ"}
	if screenMarket == "KOSPI" || screenMarket == "KOSDAQ" {
		markets = []string{screenMarket}
	}

	var tickers []screening.Ticker
	for _, market := range markets {
		stocks, err := d.naver.FetchUniverse(ctx, market, 0)
		if err != nil {
			return nil, fmt.Errorf("fetch %s universe: %w", market, err)
		}
		for _, s := range stocks {
			tickers = append(tickers, screening.Ticker{Code: s.Ticker, Name: s.Name, Market: s.Market})
		}
	}
	return tickers, nil
}

func printTier(label string, signals []*contracts.AssetSignal) {
	if len(signals) == 0 {
		return
	}
	fmt.Printf("=== %s (%d) ===\n", label, len(signals))
	for _, s := range signals {
		fmt.Printf("  %-8s %-20s %4d  %s\n",
			s.Ticker, s.Name, s.TotalScore, strings.Join(s.ActivePatterns, ","))
	}
	fmt.Println()
}

func init() {
	screenCmd.Flags().StringVar(&screenMarket, "market", "ALL", "market to scan (KOSPI, KOSDAQ, ALL)")
	screenCmd.Flags().StringSliceVar(&screenFilters, "filters", nil, "filters to apply (default from config)")
	screenCmd.Flags().StringVar(&screenCombineMode, "combine-mode", "any", "how filters combine (any, all)")
	screenCmd.Flags().IntVar(&screenMinScore, "min-score", 40, "minimum trend-cloud score")
	screenCmd.Flags().BoolVar(&screenPerfectOnly, "perfect-only", false, "require the perfect trend-cloud setup")
	screenCmd.Flags().IntVar(&screenLimit, "limit", 20, "results per tier")
	screenCmd.Flags().StringSliceVar(&screenTickers, "tickers", nil, "explicit ticker list instead of the full universe")
	screenCmd.Flags().BoolVar(&screenSave, "save", false, "persist results to the database")

	rootCmd.AddCommand(screenCmd)
}
