package contracts

import (
	"context"
	"time"
)

// PriceProvider supplies ordered daily bars for a ticker. Implementations
// must return bars oldest-first with strictly increasing dates.
type PriceProvider interface {
	GetSeries(ctx context.Context, ticker string, count int) (PriceSeries, error)
}

// FundamentalProvider supplies a financial-ratio record for a ticker.
type FundamentalProvider interface {
	GetFundamentals(ctx context.Context, ticker, market string) (*FundamentalRecord, error)
}

// ScreeningRepository persists scan results. Saving the same
// (scanDate, ticker) twice must overwrite, never duplicate.
type ScreeningRepository interface {
	SaveResults(ctx context.Context, scanDate time.Time, signals []*AssetSignal) error
	LatestResults(ctx context.Context, market string, minScore, limit int) ([]*StoredResult, error)
}

// StoredResult is one persisted scan row: identity, composite score,
// per-filter scores, trend-cloud condition flags, and the tier label.
type StoredResult struct {
	ID            int64     `json:"id"`
	ScreeningDate time.Time `json:"screening_date"`
	Ticker        string    `json:"ticker"`
	Name          string    `json:"name"`
	Market        string    `json:"market"`
	CurrentPrice  float64   `json:"current_price"`

	SignalStrength string `json:"signal_strength"`
	Score          int    `json:"score"`

	PriceAboveCloud  bool `json:"price_above_cloud"`
	TenkanAboveKijun bool `json:"tenkan_above_kijun"`
	ChikouAbovePrice bool `json:"chikou_above_price"`
	CloudBullish     bool `json:"cloud_bullish"`
	CloudBreakout    bool `json:"cloud_breakout"`
	GoldenCross      bool `json:"golden_cross"`

	IchimokuScore    int `json:"ichimoku_score"`
	BollingerScore   int `json:"bollinger_score"`
	MAAlignmentScore int `json:"ma_alignment_score"`
	CupHandleScore   int `json:"cup_handle_score"`
	ROEScore         int `json:"roe_score"`
	GPMScore         int `json:"gpm_score"`
	DebtScore        int `json:"debt_score"`
	CapExScore       int `json:"capex_score"`

	AvgTradingValue float64   `json:"avg_trading_value"`
	CreatedAt       time.Time `json:"created_at"`
}
