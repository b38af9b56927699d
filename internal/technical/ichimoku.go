package technical

import (
	"math"

	"github.com/wonny/screener/internal/contracts"
	"github.com/wonny/screener/pkg/logger"
)

// Ichimoku periods and displacement.
const (
	tenkanPeriod  = 9
	kijunPeriod   = 26
	senkouBPeriod = 52
	displacement  = 26
)

// IchimokuAnalyzer scores a series against the Ichimoku cloud: price
// vs cloud, tenkan/kijun crossover state, the lagging span, cloud
// color, plus recent breakout and golden-cross bonuses.
type IchimokuAnalyzer struct {
	log *logger.Logger
}

// NewIchimokuAnalyzer creates an IchimokuAnalyzer
func NewIchimokuAnalyzer(log *logger.Logger) *IchimokuAnalyzer {
	return &IchimokuAnalyzer{log: log}
}

func (a *IchimokuAnalyzer) Name() string { return contracts.FilterIchimoku }

// MinBars is 52-bar senkou B plus the 26-bar displacement plus margin
func (a *IchimokuAnalyzer) MinBars() int { return senkouBPeriod + displacement + 5 }

func (a *IchimokuAnalyzer) MaxScore() int { return 100 }

// ichimokuSeries holds the per-bar indicator columns.
type ichimokuSeries struct {
	tenkan      []float64
	kijun       []float64
	senkouA     []float64 // displaced forward
	senkouB     []float64 // displaced forward
	cloudTop    []float64
	cloudBottom []float64
	thickness   []float64
}

func computeIchimoku(series contracts.PriceSeries) *ichimokuSeries {
	n := len(series)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, b := range series {
		highs[i] = b.High
		lows[i] = b.Low
	}

	s := &ichimokuSeries{
		tenkan:      make([]float64, n),
		kijun:       make([]float64, n),
		senkouA:     make([]float64, n),
		senkouB:     make([]float64, n),
		cloudTop:    make([]float64, n),
		cloudBottom: make([]float64, n),
		thickness:   make([]float64, n),
	}

	for i := 0; i < n; i++ {
		s.tenkan[i] = (rollingMax(highs, i, tenkanPeriod) + rollingMin(lows, i, tenkanPeriod)) / 2
		s.kijun[i] = (rollingMax(highs, i, kijunPeriod) + rollingMin(lows, i, kijunPeriod)) / 2

		// Both spans are displaced forward by 26 bars: the value shown
		// at bar i was computed at bar i-26.
		src := i - displacement
		if src >= 0 {
			s.senkouA[i] = (s.tenkan[src] + s.kijun[src]) / 2
			s.senkouB[i] = (rollingMax(highs, src, senkouBPeriod) + rollingMin(lows, src, senkouBPeriod)) / 2
		} else {
			s.senkouA[i] = math.NaN()
			s.senkouB[i] = math.NaN()
		}

		s.cloudTop[i] = math.Max(s.senkouA[i], s.senkouB[i])
		s.cloudBottom[i] = math.Min(s.senkouA[i], s.senkouB[i])
		s.thickness[i] = math.Abs(s.senkouA[i] - s.senkouB[i])
	}

	return s
}

// Analyze evaluates the cloud conditions on the latest bar. Returns
// nil when the series is too short or a pivot/span is still warming up.
func (a *IchimokuAnalyzer) Analyze(series contracts.PriceSeries) *contracts.IchimokuSignal {
	n := len(series)
	if n < a.MinBars() {
		return nil
	}

	ich := computeIchimoku(series)
	last := n - 1
	currentPrice := series[last].Close

	if math.IsNaN(ich.tenkan[last]) || math.IsNaN(ich.kijun[last]) ||
		math.IsNaN(ich.senkouA[last]) || math.IsNaN(ich.senkouB[last]) {
		return nil
	}

	price26Ago := series[last-displacement].Close

	priceAboveCloud := currentPrice > ich.cloudTop[last]
	tenkanAboveKijun := ich.tenkan[last] > ich.kijun[last]
	chikouAbovePrice := currentPrice > price26Ago
	cloudBullish := ich.senkouA[last] > ich.senkouB[last]

	cloudBreakout := a.detectCloudBreakout(series, ich, 5)
	goldenCross := crossedAbove(ich.tenkan, ich.kijun, 5)

	// Thin cloud: current thickness under half the 10-bar average.
	avgThickness := 0.0
	for i := n - 10; i < n; i++ {
		avgThickness += ich.thickness[i]
	}
	avgThickness /= 10
	thinCloud := ich.thickness[last] < avgThickness*0.5

	score := a.score(priceAboveCloud, tenkanAboveKijun, chikouAbovePrice, cloudBullish,
		cloudBreakout, goldenCross, currentPrice, ich.cloudBottom[last])

	avgTradingValue := 0.0
	for i := n - 5; i < n; i++ {
		avgTradingValue += series[i].TradedValue
	}
	avgTradingValue /= 5

	return &contracts.IchimokuSignal{
		PriceAboveCloud:  priceAboveCloud,
		TenkanAboveKijun: tenkanAboveKijun,
		ChikouAbovePrice: chikouAbovePrice,
		CloudBullish:     cloudBullish,
		CloudBreakout:    cloudBreakout,
		GoldenCross:      goldenCross,
		ThinCloud:        thinCloud,
		TenkanSen:        round2(ich.tenkan[last]),
		KijunSen:         round2(ich.kijun[last]),
		SenkouSpanA:      round2(ich.senkouA[last]),
		SenkouSpanB:      round2(ich.senkouB[last]),
		ChikouSpan:       round2(currentPrice),
		AvgTradingValue:  round2(avgTradingValue),
		Score:            score,
	}
}

// detectCloudBreakout scans the last lookback bars for a close moving
// from at-or-below the cloud top to above it.
func (a *IchimokuAnalyzer) detectCloudBreakout(series contracts.PriceSeries, ich *ichimokuSeries, lookback int) bool {
	n := len(series)
	if n < lookback+1 {
		return false
	}
	for i := 1; i <= lookback; i++ {
		k := n - i
		wasBelowOrIn := series[k-1].Close <= ich.cloudTop[k-1]
		nowAbove := series[k].Close > ich.cloudTop[k]
		if wasBelowOrIn && nowAbove {
			return true
		}
	}
	return false
}

func (a *IchimokuAnalyzer) score(
	priceAboveCloud, tenkanAboveKijun, chikouAbovePrice, cloudBullish bool,
	cloudBreakout, goldenCross bool,
	currentPrice, cloudBottom float64,
) int {
	score := 0

	switch {
	case priceAboveCloud:
		score += 30
	case currentPrice > cloudBottom:
		// inside the cloud
		score += 10
	default:
		score -= 20
	}

	if tenkanAboveKijun {
		score += 20
	} else {
		score -= 10
	}

	if chikouAbovePrice {
		score += 20
	} else {
		score -= 10
	}

	if cloudBullish {
		score += 10
	} else {
		score -= 5
	}

	if cloudBreakout {
		score += 15
	}
	if goldenCross {
		score += 10
	}

	return clampInt(score, -100, 100)
}
