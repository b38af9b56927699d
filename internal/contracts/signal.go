package contracts

// SignalStrength is the seven-level label derived from a composite score.
type SignalStrength string

const (
	StrengthStrongBuy  SignalStrength = "STRONG_BUY"
	StrengthBuy        SignalStrength = "BUY"
	StrengthWeakBuy    SignalStrength = "WEAK_BUY"
	StrengthNeutral    SignalStrength = "NEUTRAL"
	StrengthWeakSell   SignalStrength = "WEAK_SELL"
	StrengthSell       SignalStrength = "SELL"
	StrengthStrongSell SignalStrength = "STRONG_SELL"
)

// StrengthForScore maps a composite score to its label
func StrengthForScore(score int) SignalStrength {
	switch {
	case score >= 80:
		return StrengthStrongBuy
	case score >= 50:
		return StrengthBuy
	case score >= 20:
		return StrengthWeakBuy
	case score >= -20:
		return StrengthNeutral
	case score >= -50:
		return StrengthWeakSell
	case score >= -80:
		return StrengthSell
	default:
		return StrengthStrongSell
	}
}

// Filter names accepted by the aggregator and scanner.
const (
	FilterIchimoku    = "ichimoku"
	FilterBollinger   = "bollinger"
	FilterMAAlignment = "ma_alignment"
	FilterCupHandle   = "cup_handle"
	FilterROE         = "roe"
	FilterGPM         = "gpm"
	FilterDebt        = "debt"
	FilterCapEx       = "capex"
)

// Active pattern names recorded on an AssetSignal when the matching
// filter clears its threshold.
const (
	PatternBollingerSqueeze = "bollinger_squeeze"
	PatternMAAlignment      = "ma_alignment"
	PatternCupHandle        = "cup_handle"
	PatternROEExcellence    = "roe_excellence"
	PatternGPMExcellence    = "gpm_excellence"
	PatternLowDebt          = "low_debt"
	PatternCapitalEfficient = "capital_efficient"
)

// IchimokuSignal is the trend-cloud analyzer verdict. Score is
// bounded to [-100, 100].
type IchimokuSignal struct {
	PriceAboveCloud  bool `json:"price_above_cloud"`
	TenkanAboveKijun bool `json:"tenkan_above_kijun"`
	ChikouAbovePrice bool `json:"chikou_above_price"`
	CloudBullish     bool `json:"cloud_bullish"`
	CloudBreakout    bool `json:"cloud_breakout"`
	GoldenCross      bool `json:"golden_cross"`
	ThinCloud        bool `json:"thin_cloud"`

	TenkanSen   float64 `json:"tenkan_sen"`
	KijunSen    float64 `json:"kijun_sen"`
	SenkouSpanA float64 `json:"senkou_span_a"`
	SenkouSpanB float64 `json:"senkou_span_b"`
	ChikouSpan  float64 `json:"chikou_span"`

	// 5-bar average traded value, informational.
	AvgTradingValue float64 `json:"avg_trading_value"`

	Score int `json:"score"`
}

// IsPerfect reports whether the three core bullish conditions all hold
func (s *IchimokuSignal) IsPerfect() bool {
	return s.PriceAboveCloud && s.TenkanAboveKijun && s.ChikouAbovePrice
}

// BollingerSignal is the volatility-band squeeze verdict. Score is
// bounded to [0, 80].
type BollingerSignal struct {
	UpperBand  float64 `json:"upper_band"`
	MiddleBand float64 `json:"middle_band"`
	LowerBand  float64 `json:"lower_band"`
	Bandwidth  float64 `json:"bandwidth"`
	PercentB   float64 `json:"percent_b"`

	IsSqueeze           bool    `json:"is_squeeze"`
	IsStrongSqueeze     bool    `json:"is_strong_squeeze"`
	BandwidthPercentile float64 `json:"bandwidth_percentile"`

	VolumeRatio       float64 `json:"volume_ratio"`
	VolumeSurge       bool    `json:"volume_surge"`
	StrongVolumeSurge bool    `json:"strong_volume_surge"`

	BandBreakoutAttempt bool `json:"band_breakout_attempt"`

	Score int `json:"score"`
}

// MAAlignmentSignal is the moving-average alignment verdict. Score is
// bounded to [-100, 95].
type MAAlignmentSignal struct {
	SMA5   float64 `json:"sma_5"`
	SMA20  float64 `json:"sma_20"`
	SMA60  float64 `json:"sma_60"`
	SMA120 float64 `json:"sma_120"`

	Disparity float64 `json:"disparity"`

	IsPerfectAlignment bool `json:"is_perfect_alignment"`
	IsPartialAlignment bool `json:"is_partial_alignment"`
	AlignmentCount     int  `json:"alignment_count"`

	GoldenCross520   bool `json:"golden_cross_5_20"`
	GoldenCross2060  bool `json:"golden_cross_20_60"`
	GoldenCross60120 bool `json:"golden_cross_60_120"`

	DisparityOptimal    bool `json:"disparity_optimal"`
	DisparityOverheated bool `json:"disparity_overheated"`

	Score int `json:"score"`
}

// CupHandleSignal is the chart-pattern verdict. A non-nil signal with
// CupDetected=false means the series was analyzed and no pattern was
// found, distinct from the nil "not enough bars" case. Score is
// bounded to [0, 100].
type CupHandleSignal struct {
	CupDetected     bool    `json:"cup_detected"`
	CupStartDate    string  `json:"cup_start_date,omitempty"`
	CupBottomDate   string  `json:"cup_bottom_date,omitempty"`
	CupEndDate      string  `json:"cup_end_date,omitempty"`
	CupDepthPercent float64 `json:"cup_depth_percent"`
	CupDurationDays int     `json:"cup_duration_days"`

	HandleDetected     bool    `json:"handle_detected"`
	HandleDepthPercent float64 `json:"handle_depth_percent"`

	LeftPeakPrice  float64 `json:"left_peak_price"`
	CupBottomPrice float64 `json:"cup_bottom_price"`
	RightPeakPrice float64 `json:"right_peak_price"`
	CurrentPrice   float64 `json:"current_price"`

	BreakoutImminent  bool `json:"breakout_imminent"`
	BreakoutConfirmed bool `json:"breakout_confirmed"`

	VolumeRatio float64 `json:"volume_ratio"`
	VolumeSurge bool    `json:"volume_surge"`

	Score int `json:"score"`
}

// ROESignal is the return-on-equity verdict. Score is bounded to [0, 30].
type ROESignal struct {
	CurrentROE     float64   `json:"current_roe"`
	ROEHistory     []float64 `json:"roe_history"`
	ROEMean        float64   `json:"roe_mean"`
	ROEStd         float64   `json:"roe_std"`
	YearsAvailable int       `json:"years_available"`

	ROEAbove20 bool `json:"roe_above_20"`
	ROEAbove15 bool `json:"roe_above_15"`
	ROEAbove10 bool `json:"roe_above_10"`

	IsHighlyConsistent bool `json:"is_highly_consistent"`
	IsConsistent       bool `json:"is_consistent"`

	TrendDirection string `json:"trend_direction"` // up, down, neutral
	TrendScore     int    `json:"trend_score"`

	Score int `json:"score"`
}

// GPMSignal is the gross-margin verdict. Score is bounded to [0, 25].
type GPMSignal struct {
	CurrentGPM     float64   `json:"current_gpm"`
	GPMHistory     []float64 `json:"gpm_history"`
	YearsAvailable int       `json:"years_available"`

	GPMAbove50 bool `json:"gpm_above_50"`
	GPMAbove40 bool `json:"gpm_above_40"`
	GPMAbove30 bool `json:"gpm_above_30"`

	ThreeYearStableOrRising bool `json:"three_year_stable_or_rising"`

	Score int `json:"score"`
}

// DebtSignal is the leverage verdict. Score is bounded to [0, 25].
type DebtSignal struct {
	CurrentDebtRatio float64 `json:"current_debt_ratio"`
	TotalDebt        float64 `json:"total_debt"`
	NetIncome        float64 `json:"net_income"`
	RepaymentRatio   float64 `json:"repayment_ratio"`
	YearsToRepay     float64 `json:"years_to_repay"`

	DebtBelow50  bool `json:"debt_below_50"`
	DebtBelow100 bool `json:"debt_below_100"`
	DebtBelow150 bool `json:"debt_below_150"`
	DebtAbove200 bool `json:"debt_above_200"`

	CanRepayIn5Years  bool `json:"can_repay_in_5_years"`
	CanRepayIn10Years bool `json:"can_repay_in_10_years"`

	Score int `json:"score"`
}

// CapExSignal is the capital-expenditure verdict. Score is bounded to [0, 20].
type CapExSignal struct {
	CurrentCapEx       float64 `json:"current_capex"`
	CurrentNetIncome   float64 `json:"current_net_income"`
	CapExToIncomeRatio float64 `json:"capex_to_income_ratio"`

	CapExRatioHistory []float64 `json:"capex_ratio_history"`
	CapExRatio3YAvg   float64   `json:"capex_ratio_3y_avg"`
	YearsAvailable    int       `json:"years_available"`

	CapExBelow15 bool `json:"capex_below_15"`
	CapExBelow25 bool `json:"capex_below_25"`
	CapExBelow35 bool `json:"capex_below_35"`
	CapExAbove50 bool `json:"capex_above_50"`

	IsStable bool `json:"is_stable"`

	Score int `json:"score"`
}

// AssetSignal is the aggregate verdict for one asset: the subset of
// indicator signals that were requested and computable, the patterns
// that cleared their thresholds, and the composite score. It is
// constructed once per scan pass and never mutated afterwards.
type AssetSignal struct {
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	Market       string  `json:"market"`
	CurrentPrice float64 `json:"current_price"`

	Ichimoku    *IchimokuSignal    `json:"ichimoku,omitempty"`
	Bollinger   *BollingerSignal   `json:"bollinger,omitempty"`
	MAAlignment *MAAlignmentSignal `json:"ma_alignment,omitempty"`
	CupHandle   *CupHandleSignal   `json:"cup_handle,omitempty"`
	ROE         *ROESignal         `json:"roe,omitempty"`
	GPM         *GPMSignal         `json:"gpm,omitempty"`
	Debt        *DebtSignal        `json:"debt,omitempty"`
	CapEx       *CapExSignal       `json:"capex,omitempty"`

	ActivePatterns []string `json:"active_patterns"`
	BonusScore     int      `json:"bonus_score"`
	TotalScore     int      `json:"total_score"`

	Strength SignalStrength `json:"signal_strength"`
}
