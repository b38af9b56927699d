package screening

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/database"
	"github.com/wonny/screener/pkg/logger"
)

// Repository persists scan results to the screening_results table.
// One row per (screening_date, ticker); re-running a scan for the same
// day overwrites prior rows.
type Repository struct {
	db  *database.DB
	log *logger.Logger
}

// NewRepository creates a Repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, log: log}
}

const upsertResultSQL = `
INSERT INTO screening_results (
    screening_date, ticker, name, market, current_price,
    signal_strength, score,
    price_above_cloud, tenkan_above_kijun, chikou_above_price,
    cloud_bullish, cloud_breakout, golden_cross,
    ichimoku_score, bollinger_score, ma_alignment_score, cup_handle_score,
    roe_score, gpm_score, debt_score, capex_score,
    avg_trading_value, created_at
) VALUES (
    $1, $2, $3, $4, $5,
    $6, $7,
    $8, $9, $10,
    $11, $12, $13,
    $14, $15, $16, $17,
    $18, $19, $20, $21,
    $22, NOW()
)
ON CONFLICT (screening_date, ticker) DO UPDATE SET
    name = EXCLUDED.name,
    market = EXCLUDED.market,
    current_price = EXCLUDED.current_price,
    signal_strength = EXCLUDED.signal_strength,
    score = EXCLUDED.score,
    price_above_cloud = EXCLUDED.price_above_cloud,
    tenkan_above_kijun = EXCLUDED.tenkan_above_kijun,
    chikou_above_price = EXCLUDED.chikou_above_price,
    cloud_bullish = EXCLUDED.cloud_bullish,
    cloud_breakout = EXCLUDED.cloud_breakout,
    golden_cross = EXCLUDED.golden_cross,
    ichimoku_score = EXCLUDED.ichimoku_score,
    bollinger_score = EXCLUDED.bollinger_score,
    ma_alignment_score = EXCLUDED.ma_alignment_score,
    cup_handle_score = EXCLUDED.cup_handle_score,
    roe_score = EXCLUDED.roe_score,
    gpm_score = EXCLUDED.gpm_score,
    debt_score = EXCLUDED.debt_score,
    capex_score = EXCLUDED.capex_score,
    avg_trading_value = EXCLUDED.avg_trading_value,
    created_at = NOW()
`

// SaveResults upserts one row per signal for the given scan date
func (r *Repository) SaveResults(ctx context.Context, scanDate time.Time, signals []*contracts.AssetSignal) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sig := range signals {
		row := toStoredRow(sig)
		_, err := tx.Exec(ctx, upsertResultSQL,
			scanDate, sig.Ticker, sig.Name, sig.Market, sig.CurrentPrice,
			string(sig.Strength), sig.TotalScore,
			row.PriceAboveCloud, row.TenkanAboveKijun, row.ChikouAbovePrice,
			row.CloudBullish, row.CloudBreakout, row.GoldenCross,
			row.IchimokuScore, row.BollingerScore, row.MAAlignmentScore, row.CupHandleScore,
			row.ROEScore, row.GPMScore, row.DebtScore, row.CapExScore,
			row.AvgTradingValue,
		)
		if err != nil {
			return fmt.Errorf("upsert result %s: %w", sig.Ticker, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"date":  scanDate.Format("2006-01-02"),
		"count": len(signals),
	}).Info("screening results saved")

	return nil
}

const latestResultsSQL = `
SELECT id, screening_date, ticker, name, market, current_price,
       signal_strength, score,
       price_above_cloud, tenkan_above_kijun, chikou_above_price,
       cloud_bullish, cloud_breakout, golden_cross,
       ichimoku_score, bollinger_score, ma_alignment_score, cup_handle_score,
       roe_score, gpm_score, debt_score, capex_score,
       avg_trading_value, created_at
FROM screening_results
WHERE screening_date = (SELECT MAX(screening_date) FROM screening_results)
  AND ($1 = '' OR market = $1)
  AND score >= $2
ORDER BY score DESC, ticker
LIMIT $3
`

// LatestResults returns the most recent scan's rows, score descending.
// An empty market matches all markets.
func (r *Repository) LatestResults(ctx context.Context, market string, minScore, limit int) ([]*contracts.StoredResult, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Pool.Query(ctx, latestResultsSQL, market, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("query latest results: %w", err)
	}
	defer rows.Close()

	var results []*contracts.StoredResult
	for rows.Next() {
		var res contracts.StoredResult
		err := rows.Scan(
			&res.ID, &res.ScreeningDate, &res.Ticker, &res.Name, &res.Market, &res.CurrentPrice,
			&res.SignalStrength, &res.Score,
			&res.PriceAboveCloud, &res.TenkanAboveKijun, &res.ChikouAbovePrice,
			&res.CloudBullish, &res.CloudBreakout, &res.GoldenCross,
			&res.IchimokuScore, &res.BollingerScore, &res.MAAlignmentScore, &res.CupHandleScore,
			&res.ROEScore, &res.GPMScore, &res.DebtScore, &res.CapExScore,
			&res.AvgTradingValue, &res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		results = append(results, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}

	return results, nil
}

// toStoredRow flattens the optional per-analyzer signals into the
// column shape, zero-valued where an analyzer did not run.
func toStoredRow(sig *contracts.AssetSignal) contracts.StoredResult {
	row := contracts.StoredResult{
		Ticker:       sig.Ticker,
		Name:         sig.Name,
		Market:       sig.Market,
		CurrentPrice: sig.CurrentPrice,
		Score:        sig.TotalScore,
	}
	if ich := sig.Ichimoku; ich != nil {
		row.PriceAboveCloud = ich.PriceAboveCloud
		row.TenkanAboveKijun = ich.TenkanAboveKijun
		row.ChikouAbovePrice = ich.ChikouAbovePrice
		row.CloudBullish = ich.CloudBullish
		row.CloudBreakout = ich.CloudBreakout
		row.GoldenCross = ich.GoldenCross
		row.IchimokuScore = ich.Score
		row.AvgTradingValue = ich.AvgTradingValue
	}
	if sig.Bollinger != nil {
		row.BollingerScore = sig.Bollinger.Score
	}
	if sig.MAAlignment != nil {
		row.MAAlignmentScore = sig.MAAlignment.Score
	}
	if sig.CupHandle != nil {
		row.CupHandleScore = sig.CupHandle.Score
	}
	if sig.ROE != nil {
		row.ROEScore = sig.ROE.Score
	}
	if sig.GPM != nil {
		row.GPMScore = sig.GPM.Score
	}
	if sig.Debt != nil {
		row.DebtScore = sig.Debt.Score
	}
	if sig.CapEx != nil {
		row.CapExScore = sig.CapEx.Score
	}
	return row
}
